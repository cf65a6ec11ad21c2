/*
Package dataset provides corpus sources for the markov package: named lists of
training words, one dataset per file, keyed by the file name without extension.

A Dir reads a directory of .json (array of strings), .yaml / .yml (sequence of
strings) and .txt (one word per line) files. Any other Source implementation, such
as the SQLite store, can be used interchangeably with the helpers of this package.
*/
package dataset
