/*
Package markov generates plausible new names from a list of example names using
character-level Markov chains with Katz-style back-off.

A Model learns, for one fixed order n, which character follows every n-character
context seen in the training corpus, and turns those counts into sampling weights
using an additive Dirichlet prior. A Generator owns one Model per order from its
configured maximum down to 1 and builds names one character at a time, falling back
to shorter contexts whenever a longer one was never observed. Every name starts with
order boundary symbols ('#') and ends when a model produces the boundary symbol.

Randomness comes from an injectable Source, so a fixed seed reproduces the exact same
sequence of names. Trained generators can be exported to and imported from JSON.
*/
package markov
