package stepz_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/zoobzio/stepz"
)

func Example() {
	split := stepz.Expand("split-lines", func(_ context.Context, v any) ([]any, error) {
		var out []any
		for _, line := range strings.Split(v.(string), "\n") {
			out = append(out, line)
		}
		return out, nil
	})

	counter := 0
	number := stepz.Transform("number-line", func(_ context.Context, v any) any {
		counter++
		return fmt.Sprintf("%d: %s", counter, v)
	})

	chain := stepz.Bind(split, number)

	vals, err := stepz.Collect(chain.Produce(context.Background(), "alpha\nbeta\ngamma"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, v := range vals {
		fmt.Println(v)
	}
	// Output:
	// 1: alpha
	// 2: beta
	// 3: gamma
}

func ExampleTree() {
	trim := stepz.Transform("trim", func(_ context.Context, v any) any {
		return strings.TrimSpace(v.(string))
	})
	lower := stepz.Transform("lower", func(_ context.Context, v any) any {
		return strings.ToLower(v.(string))
	})
	exact := stepz.Filter("exact", func(_ context.Context, v any) bool {
		return v == "yes"
	})
	fuzzy := stepz.Filter("fuzzy", func(_ context.Context, v any) bool {
		return strings.HasPrefix(v.(string), "y")
	})

	chain := stepz.Bind(stepz.Bind(trim, lower), stepz.NewFallback("pick", exact, fuzzy))
	fmt.Println(stepz.Tree(chain))
	// Output:
	// Sequence(3)
	//    |__trim()
	//    |__lower()
	//    |__Fallback(2)
	//           |__exact()
	//           |__fuzzy()
}

func ExampleOr() {
	vowel := stepz.Filter("vowel", func(_ context.Context, v any) bool {
		return strings.ContainsAny(v.(string), "aeiou")
	})
	short := stepz.Filter("short", func(_ context.Context, v any) bool {
		return len(v.(string)) < 4
	})
	fallback := stepz.Transform("mark", func(_ context.Context, v any) any {
		return "?" + v.(string)
	})

	pick := stepz.Or(stepz.Or(vowel, short), fallback)

	for _, word := range []string{"oak", "myth", "sky"} {
		vals, _ := stepz.Collect(pick.Produce(context.Background(), word))
		fmt.Println(vals[0])
	}
	// Output:
	// oak
	// ?myth
	// sky
}
