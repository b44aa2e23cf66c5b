/*
Package mantaray implements the Mantaray manifest trie: a compressed,
content-addressed radix trie mapping paths to references, used to
describe directories on a content-addressed storage network.

# Nodes and forks

Every Node maps the first byte of a path segment to a Fork. A fork
carries a prefix of 1 to 30 bytes and owns exactly one child Node.
Inserting a path that diverges from an existing prefix splits that
prefix and pushes the old child one level down; a segment longer than
30 bytes is chained through intermediate edge nodes.

# Persistence

A node without a content address is dirty. Save persists the dirty
part of a tree bottom-up, saving the children of every node
concurrently before serializing the node itself, and records the
reference returned by the Saver. Load reads a single node; use
LoadAllNodes to materialise a whole tree.

# Wire format

The serialized node is

	obfuscationKey[32] | versionHash[31] | refLen[1] | entry[refLen] |
	forkIndex[32] | forks...

and every fork record is

	nodeType[1] | prefixLen[1] | prefix[30] | reference[refLen] |
	(metadataLen[2, big endian] | metadataJSON)?

Everything after the obfuscation key is XOR-ed with the key.
*/
package mantaray
