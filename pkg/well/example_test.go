package well_test

import (
	"fmt"

	"github.com/matzehuels/platemap/pkg/well"
)

func ExampleParse() {
	for _, label := range []string{"A01", "h12", "AA12"} {
		c, err := well.Parse(label)
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}
		fmt.Printf("%s -> row %d, column %d\n", label, c.Row, c.Column)
	}
	// Output:
	// A01 -> row 0, column 0
	// h12 -> row 7, column 11
	// AA12 -> row 26, column 11
}

func ExampleRowLetters() {
	for _, i := range []int{0, 25, 26, 701} {
		s, _ := well.RowLetters(i)
		fmt.Println(i, s)
	}
	_, err := well.RowLetters(702)
	fmt.Println(err)
	// Output:
	// 0 A
	// 25 Z
	// 26 AA
	// 701 ZZ
	// ROW_INDEX_OUT_OF_RANGE: row index 702 out of range [0, 701]
}

func ExampleNormalize() {
	s, _ := well.Normalize("a01")
	fmt.Println(s)
	// Output: A1
}
