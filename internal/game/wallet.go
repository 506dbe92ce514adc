package game

// Wallet holds the player's currencies. Only cash regions and force-clear
// liquidation add money; nothing in the game subtracts it.
type Wallet struct {
	Money    int64
	Diamonds int64
	Keys     int64
}

// AddMoney credits n. Non-positive amounts are ignored.
func (w *Wallet) AddMoney(n int64) {
	if n > 0 {
		w.Money += n
	}
}
