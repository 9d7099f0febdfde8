// Package schema provides the element descriptors used to bind eSCL
// documents to Go values, and the decoder and encoder driven by them.
//
// A schema is a tree of Node values. Each Node names one element and
// carries the callbacks that store its attributes and text into the
// caller's value. The decoder reads tokens through the quirks reader, so
// descriptors are always written against canonical names.
//
// Schema processing
//
// Decode reads one document. For each token read in the context of an
// element node n, the following occurs;
//
//   xml.StartElement
//       If a child of n matches by name, its Start callback runs and
//       the child becomes the context node, or its Custom decoder is
//       given the element. Otherwise the element is recorded as
//       unknown input and skipped along with its content.
//
//   xml.CharData
//       Accumulated until the end of n. Trimmed text is passed to the
//       Text callback of n, or recorded as unknown input if n has none.
//
//   xml.EndElement
//       Required children of n that did not occur produce a
//       missing-element error. The End callback of n runs and the
//       parent becomes the context node.
//
// Unknown input never fails a decode. It is returned alongside the
// value so callers can log it, and Lookup recovers its raw content from
// the raw document for diagnostics.
package schema
