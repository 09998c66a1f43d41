// Package merge combines ordered configuration layers into a single flat map
// under a precedence rule.
//
// Layers arrive in the loader factory's selection order. Under the merge and
// aws-first rules the sequence is a stack of overlays applied left to right:
// later layers win per top-level key. Under local-first the remote layers are
// applied before the local ones, so locally established values win on
// conflict while keys unique to a remote layer still contribute.
//
// Top-level keys are replaced wholesale. The output never blends one key's
// value from two sources, and a key present in only one layer always
// survives regardless of rule.
package merge
