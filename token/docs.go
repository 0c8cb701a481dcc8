// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

/*
token is a package for building and parsing JWT shaped credentials without
verifying (or producing) signatures.

Primary functions provided by the package

* EncodeSegment/DecodeSegment: the unpadded base64url segment encoding used by
JWTs.

* Parse: splits a credential into its header, payload claims and signature and
fails with ErrFormat unless the credential is structurally sound.
IsStructurallyValid is the non-failing variant for advisory checks.

* NewMock: mints a mock Sign in with Apple id_token.  The signature segment is
a fixed placeholder, so a mock is only useful against a backend that is
running with signature verification disabled.

* IDToken: an id_token string which redacts itself when printed or marshaled.
*/
package token
