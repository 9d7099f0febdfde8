/*
Package quirks normalizes known vendor deviations from the eSCL schema
while a document is being read.

Reader wraps an xml.Decoder and rewrites element names the moment they
are read, so the schema-driven decoder only ever sees canonical names.
Rewrites are keyed on the element's local name alone and depend on no
state carried between tokens: the same document produces the same token
stream on every pass.

Namespaces

eSCL documents combine two namespaces: the PWG semantic model namespace
(prefix pwg) and the scan namespace (prefix scan). Firmware does not
always declare them, and sometimes places elements in the wrong one.
Elements whose namespace is the PWG URI, or the undeclared literal
prefix "pwg", are placed in the PWG namespace. Every other element is
placed in the scan namespace.

Rules

After namespace normalization the entries of Rules are applied in order:

	ContentType      always in the PWG namespace (some Canon firmware
	                 uses scan:ContentType inside SettingProfiles)
	SupportedIntent  renamed to Intent (some Kyocera and TA firmware
	                 uses it inside SupportedIntents)
*/
package quirks
