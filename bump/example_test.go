package bump_test

import (
	"fmt"

	"github.com/kolkov/bumplocal/bump"
)

func Example() {
	b := bump.NewBuilder().
		BumpCapacity(1024).
		Build()
	defer b.Release()

	l := b.Local()

	v, _ := bump.Alloc[int64](l)
	*v = 42

	s, _ := bump.AllocSlice[byte](l, 100)

	fmt.Println("value:", *v)
	fmt.Println("slice:", len(s))
	fmt.Println("in use:", l.Metrics().SizeInUse)

	// Output:
	// value: 42
	// slice: 100
	// in use: 108
}

func ExampleBump_ResetAll() {
	b := bump.NewBuilder().BumpCapacity(100).Build()
	defer b.Release()

	if _, err := b.Local().AllocBytes(30); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("before reset:", b.Local().ChunkCapacity())

	// A reset is refused while another handle exists.
	clone := b.Clone()
	if err := b.ResetAll(); err != nil {
		fmt.Println(err)
	}
	clone.Release()

	if err := b.ResetAll(); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("after reset:", b.Local().ChunkCapacity())

	// Output:
	// before reset: 70
	// bump: reset is only allowed when a single handle exists
	// after reset: 100
}
