// Package normalize folds raw probe and email-check output into the
// canonical NormalizedExposure record every downstream analyzer reads.
//
// Normalization is a pure transformation: the same raw input always
// produces the same record, and nothing downstream ever mutates it.
package normalize
