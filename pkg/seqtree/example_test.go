package seqtree_test

import (
	"fmt"

	"github.com/matzehuels/strata/pkg/seqtree"
)

func ExampleTree_SplitAt() {
	t := seqtree.New[string]()
	for _, k := range []string{"a", "b", "c", "d"} {
		t.Append(k)
	}

	left, right := t.SplitAt(1)
	fmt.Println(left.Keys(), right.Keys())

	joined := seqtree.Join(right, left)
	fmt.Println(joined.Keys())
	// Output:
	// [a] [b c d]
	// [b c d a]
}

func ExampleArena_Locate() {
	arena := seqtree.NewArena[int]()
	t := arena.New()
	for i := 10; i < 15; i++ {
		t.Append(i)
	}
	_, right := t.SplitAt(2)

	owner, pos, _ := arena.Locate(13)
	fmt.Println(owner == right, pos)
	// Output:
	// true 1
}
