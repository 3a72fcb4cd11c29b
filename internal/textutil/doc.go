// Package textutil holds the text helpers of the episode pipeline: word
// vectors compared by cosine similarity, which flag dialogue that repeats the
// standard introduction, research keyword matching, and file name slugs for
// episode and transcript paths.
//
// Tokenization is script aware. Text is lowercased and split on anything that
// is not a letter, digit or combining mark, so Devanagari and Tamil words keep
// their vowel signs. Tokens shorter than two runes are dropped.
package textutil
