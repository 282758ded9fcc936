package hierarchy_test

import (
	"fmt"

	"github.com/matzehuels/tablescope/pkg/hierarchy"
	"github.com/matzehuels/tablescope/pkg/records"
)

func ExampleBuild() {
	rs, _ := records.New([]string{"gender", "outcome"}, [][]string{
		{"M", "0"}, {"M", "1"}, {"F", "0"}, {"F", "0"},
	})

	root, err := hierarchy.Build(rs, []string{"gender", "outcome"})
	if err != nil {
		fmt.Println(err)
		return
	}

	hierarchy.Walk(root, func(n *hierarchy.Node, ancestors []*hierarchy.Node) bool {
		fmt.Printf("%*s%s (%d)\n", 2*len(ancestors), "", n.Label(), n.Value)
		return true
	})
	// Output:
	// all (4)
	//   gender: M (2)
	//     outcome: 0 (1)
	//     outcome: 1 (1)
	//   gender: F (2)
	//     outcome: 0 (2)
}
