/*
Package modelpipe is a verification engine for model-driven network
device tests.

Given an actual device response (NETCONF rpc-reply XML or CLI
configuration text) and an expected template, the engine determines
whether the response satisfies the expectation, accounting for element
ordering, missing and extra elements, RFC6243 with-defaults semantics,
and per-field logical assertions.

The rpcverify package aligns rpc-reply elements against expected XML
templates and operational-field assertions.  The cliconfig package
normalizes CLI configuration text and computes order-insensitive
structural diffs, which the cliverify package uses to validate
configuration replay sequences.  The pipeline package runs declarative
test actions that drive both.

The engine is a pure function of its textual inputs plus the device's
capability set; device transports supply replies and are not part of
this module.
*/
package modelpipe
