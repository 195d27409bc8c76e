// Package skills serves markdown skill documents from a configured
// directory, verbatim. It applies the same traversal defense as the unit
// scanner: a requested name is only ever resolved against verified paths
// directly under the skills directory.
package skills
