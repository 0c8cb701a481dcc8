// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

/*
callback is a package that reconciles identity provider redirect responses.

Locate finds the response artifacts in whichever carrier delivered them (the
URL fragment, the query string or a form_post response relayed through a
session store), and Classify turns them into exactly one Outcome.  The
handlers Apple and AuthCode wire both steps into an http.HandlerFunc, while
FormPostRelay accepts Apple's form_post response and relays it to the
callback.
*/
package callback
