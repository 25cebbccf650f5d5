// Packages lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It contains the email provider integrations (Mailchimp
// Transactional / Mandrill and Resend) and the Prometheus metrics.
package lib
