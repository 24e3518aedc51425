// Package extract parses candidate names, titles, and dates out of gallery
// titles and filesystem paths.
//
// Galleries frequently carry no usable title of their own, so the folder
// structure and archive filename are the primary signal: "Jane_Doe/beach-set"
// yields the phrases "jane doe" and "beach set". Phrases are emitted most
// specific first so callers can stop at the first confident match.
package extract
