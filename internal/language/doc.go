// Package language normalizes the language codes accepted on the command line
// and in config, and supplies the English names used in translation prompts.
//
// The offered list mirrors the languages presented to users; any other valid
// BCP 47 tag is still accepted and named through CLDR data.
package language
