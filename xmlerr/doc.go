/*
Package xmlerr defines the errors reported while decoding eSCL XML
documents.

Every error carries a tag naming what went wrong (bad-element,
missing-element and so on), the offending element or attribute and,
when known, the reader position. Unknown elements are not errors; they
are collected by the schema package instead.
*/
package xmlerr
