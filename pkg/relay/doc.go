// Package relay reshapes Instagram responses into the public schema served
// to the front end and classifies upstream failures into HTTP answers.
//
// Service is the credentialed, normalizing variant; Proxy is the anonymous
// pass-through variant. Both share the same Upstream client and failure
// classification.
package relay
