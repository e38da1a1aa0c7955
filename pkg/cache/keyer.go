package cache

import "fmt"

// keyVersion is bumped whenever the cached encoding changes.
const keyVersion = "v1"

// Keyer derives cache keys.
type Keyer interface {
	// ResultKey is the key of a pipeline result for the event with the given
	// content hash.
	ResultKey(eventHash string, opts ResultKeyOpts) string

	// ArtifactKey is the key of a rendered graph with the given DOT hash.
	ArtifactKey(dotHash string, opts ArtifactKeyOpts) string
}

// ResultKeyOpts lists every option that changes a pipeline result.
// Worker counts are absent since they never change the output.
type ResultKeyOpts struct {
	PtMin              float64 `json:"ptmin"`
	RegionOriginX      float64 `json:"region_origin_x"`
	RegionOriginY      float64 `json:"region_origin_y"`
	RegionOriginRadius float64 `json:"region_origin_radius"`
	ThetaCut           float64 `json:"theta_cut"`
	PhiCut             float64 `json:"phi_cut"`
	HardPtCut          float64 `json:"hard_pt_cut"`
	MinHits            int     `json:"min_hits"`
	MinimumLevel       int     `json:"minimum_level"`
	MaxIterations      int     `json:"max_iterations"`
	TripletsOnly       bool    `json:"triplets_only"`
}

// ArtifactKeyOpts lists the options of a rendered graph.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// DefaultKeyer produces keys of the form "tricktrack:v1:<type>:<hash>".
type DefaultKeyer struct {
	namespace string
}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{namespace: "tricktrack:" + keyVersion}
}

// ResultKey implements Keyer.
func (k *DefaultKeyer) ResultKey(eventHash string, opts ResultKeyOpts) string {
	return hashKey(fmt.Sprintf("%s:%s", k.namespace, KeyTypeResult), eventHash, opts)
}

// ArtifactKey implements Keyer.
func (k *DefaultKeyer) ArtifactKey(dotHash string, opts ArtifactKeyOpts) string {
	return hashKey(fmt.Sprintf("%s:%s", k.namespace, KeyTypeArtifact), dotHash, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)
