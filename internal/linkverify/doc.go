// Package linkverify scans generated HTML pages for internal links whose
// target file does not exist in the site output.
package linkverify
