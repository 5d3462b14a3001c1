/*
Strucget fetches a macromolecular structure by name and prints a
summary of what came back.

Usage:
	strucget [options] name

A name is a pdb code, possibly with a sub-selection, or a
biological assembly reference:
	4hhb          whole entry
	4hhb.C        chain C
	4gcr.A_1-83   residues 1 to 83 of chain A
	BIOL:1fah     biological assembly 1
	BIOL:1fah:0   the asymmetric unit itself

Downloaded entries are kept in a disk cache, so asking for the same
entry twice only costs one download. The cache location, download
mirror and timeout come from the config file and can be overridden
with flags.
*/
package main
