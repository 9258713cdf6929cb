// Package mail sends transactional email.
//
// Callers depend on the Mail interface and build a Message; SMTP is the only
// transport shipped here. Send honors the caller's context for the whole
// SMTP exchange.
package mail
