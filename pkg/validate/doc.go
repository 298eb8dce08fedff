// Package validate audits a whole VSS tree at once.
//
// Where tree lookup validates only the single signal it resolves, a
// Validator walks every node, materializes every leaf, and reports each
// finding as a log event. This is what the vss-validate tool runs.
package validate
