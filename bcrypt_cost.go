//go:build !race

package social

func passwordHashCost() int {
	return 14
}
