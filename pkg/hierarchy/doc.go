// Package hierarchy groups a RecordSet into a rooted tree of nested
// categorical partitions.
//
// [Build] partitions the records by each grouping attribute in turn. Every
// node carries the attribute it was split on, the attribute value it stands
// for, and the number of records in its partition:
//
//	root (4)
//	├── gender: M (2)
//	│   ├── outcome: 0 (1)
//	│   └── outcome: 1 (1)
//	└── gender: F (2)
//	    └── outcome: 0 (2)
//
// Sibling order is the first-seen order of the values unless a domain is
// declared with [WithDomain]. Partitions without records never produce
// nodes, so a non-leaf value always equals the sum of its children.
//
// Trees are built once per RecordSet and attribute list and are not
// modified afterwards; rebuild when the input changes.
package hierarchy
