// Command subtrans translates subtitle files with an LLM.
//
//	subtrans translate movie.srt -t zh
//
// writes movie_translated.srt plus the _src, _bilingual and
// _bilingual_reverse variants next to the input. Other commands inspect and
// convert subtitle files, check the environment, and manage the translation
// cache and configuration.
package main
