// Package service contains the business logic.
//
// It sits between the handler layer and the email provider.
// It receives validated requests from the handler, assembles
// the outgoing message and hands it to the configured sender.
package service
