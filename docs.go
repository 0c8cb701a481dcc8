// Copyright IBM Corp. 2020, 2025
// SPDX-License-Identifier: MPL-2.0

// signin provides a collection of related packages which complete third
// party sign in flows (Sign in with Apple, Kakao and Naver) and forward the
// resulting id_token to a backend which issues the session.
//
// The callback package reconciles redirect responses, the exchange package
// talks to the backend, the token package mints and decodes mock
// credentials for local development, and the provider package builds login
// URLs.
package signin
