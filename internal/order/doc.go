// Package order decides the sequence of files in a filing document and how
// that sequence falls onto pages.
package order
