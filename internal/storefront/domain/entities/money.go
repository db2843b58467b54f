package entities

import "math"

// Money - сумма в минимальных единицах валюты (пайсы, центы).
// Целое представление исключает накопление ошибок округления в итогах.
type Money int64

// MaxMoney - наибольшая представимая сумма.
const MaxMoney = Money(math.MaxInt64)

// Times возвращает m * quantity. ok == false при переполнении.
// Рассчитан на m >= 0 и quantity >= 0.
func (m Money) Times(quantity int) (total Money, ok bool) {
	if m == 0 || quantity == 0 {
		return 0, true
	}
	if m > MaxMoney/Money(quantity) {
		return 0, false
	}
	return m * Money(quantity), true
}

// Plus возвращает m + other. ok == false при переполнении.
// Рассчитан на неотрицательные слагаемые.
func (m Money) Plus(other Money) (sum Money, ok bool) {
	if m > MaxMoney-other {
		return 0, false
	}
	return m + other, true
}
