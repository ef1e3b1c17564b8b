// Package git reads the source revision of the documentation input folder so
// that build reports can name the commit they were built from.
package git
