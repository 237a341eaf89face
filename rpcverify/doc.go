/*
Package rpcverify verifies NETCONF rpc-reply messages against expected
XML templates and operational-field assertions.

A reply and an expectation are each flattened into document-ordered
(element, xpath) entries with the rpc-reply envelope stripped, then
aligned by tag and xpath. Elements in the expectation prefixed with a
"-" (minus) on their line are required to be absent from the reply;
how strictly that is enforced follows the device's RFC6243
with-defaults capability. Operational fields apply per-value logical
operators (==, !=, <, <=, >, >=, range) independent of full-tree
alignment.

Verification outcomes are reported as booleans with diagnostics
written to the injected logger; a single pass accumulates every
mismatch rather than failing fast. Only malformed input XML
short-circuits.
*/
package rpcverify
