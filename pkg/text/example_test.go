package text_test

import (
	"context"
	"fmt"

	"github.com/walteh/astrofix/pkg/text"
)

func ExamplePipeline_Rewrite() {
	// Build the default pipeline
	pipeline, err := text.New(text.Options{})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	page := "<p>Example</p>\n<pre><code>const obj = {a: 1};</code></pre>\n"

	result, err := pipeline.Rewrite(context.Background(), []byte(page))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Modified: %s", result.ModifiedContent)
	fmt.Printf("Changes: %d\n", result.ReplacementCount)
	fmt.Printf("Was Modified: %v\n", result.WasModified)

	// Output:
	// Modified: <p>Example</p>
	// <pre set:html={`<code>const obj = {a: 1};</code>`} />
	// Changes: 1
	// Was Modified: true
}

func ExampleOptions_Validate() {
	opts := text.Options{Disable: []string{"diagram", "tables"}}

	err := opts.Validate()
	fmt.Printf("Validation error: %v\n", err)

	// Output:
	// Validation error: disable 1: unknown rule "tables"
}
