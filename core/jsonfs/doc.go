// Package jsonfs holds the file tree helpers the pipeline stages share:
// deterministic JSON discovery, indented JSON writes, root-confined path
// joining, directory copy/removal and content hashing.
package jsonfs
