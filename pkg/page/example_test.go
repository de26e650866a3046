package page_test

import (
	"fmt"

	"github.com/matzehuels/glitchzine/pkg/page"
)

func ExampleAssemble() {
	tpl := "<h1>{{title}}</h1>\n<main>{{content}}</main>\n<footer>{{credits}}</footer>"

	html, err := page.Assemble(tpl, map[string]string{
		"title":   "kotel",
		"content": "<span>hello</span>",
	})
	if err != nil {
		panic(err)
	}
	fmt.Println(html)
	fmt.Println(page.Unfilled(tpl, map[string]string{"title": "", "content": ""}))
	// Output:
	// <h1>kotel</h1>
	// <main><span>hello</span></main>
	// <footer>{{credits}}</footer>
	// [credits]
}
