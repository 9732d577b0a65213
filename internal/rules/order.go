package rules

import (
	"errors"
	"sort"
)

var ErrDealerNotFound = errors.New("dealer position not occupied by any player")

// EstimationOrder returns table positions in the order players announce
// their estimates. Estimation starts with the player immediately
// counter-clockwise of the dealer (the next lower position, wrapping) and
// walks counter-clockwise around the table, so the dealer estimates last.
func EstimationOrder(positions []int, dealerPosition int) ([]int, error) {
	sorted := append([]int(nil), positions...)
	sort.Ints(sorted)

	dealerIndex := -1
	for i, p := range sorted {
		if p == dealerPosition {
			dealerIndex = i
			break
		}
	}
	if dealerIndex == -1 {
		return nil, ErrDealerNotFound
	}

	n := len(sorted)
	order := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		order = append(order, sorted[(dealerIndex-i+n)%n])
	}
	return order, nil
}

// NextDealer returns the position that deals the following round: the seat
// that estimated first this round, i.e. dealing rotates one seat
// counter-clockwise.
func NextDealer(positions []int, currentDealerPosition int) (int, error) {
	order, err := EstimationOrder(positions, currentDealerPosition)
	if err != nil {
		return 0, err
	}
	return order[0], nil
}
