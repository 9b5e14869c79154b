// wikifetch fetches pages from MediaWiki-powered wikis and renders their
// wikitext as plain text or Markdown.
package main

import "github.com/olgasafonova/wikifetch/cmd"

func main() {
	cmd.Execute()
}
