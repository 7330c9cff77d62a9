// Package cascade implements the layer merge engine.
//
// A cascade is a named, ordered sequence of configuration layers whose
// merge yields one effective tree. Two merge scopes share one algorithm
// at different granularity:
//
// Intra-layer merge combines the source units of a single layer into the
// layer's own tree. Each unit is mapped deterministically to a path
// prefix derived from its identifier. Two units defining the identical
// leaf path is a hard OverlapError: ambiguity within a layer is never
// guessed away. Units may also be RFC 6902 patches, applied to the layer
// tree after all document units.
//
// Inter-layer merge folds layers lowest-to-highest precedence. Objects
// merge by key union, recursing; everything else — values, arrays, refs,
// mismatched kinds — is replaced wholesale by the higher-precedence
// side. Arrays are never merged element by element. Layers are totally
// ordered, so the highest layer touching a path always wins.
//
// Origin tracking runs in two passes. Pass one scans every layer's own
// pre-merge tree and records, per leaf path, the ordered list of layer
// indices defining it; pass two sets each path's winner to the maximum
// index in that list. Structural presence in the merged tree does not by
// itself say which layers redefined a leaf, hence the separation.
//
// Identical layer trees in identical order always produce byte-identical
// merged output and origin maps.
package cascade
