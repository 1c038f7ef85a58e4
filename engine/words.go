// engine/words.go
package engine

// wordList is the fixed pool the word-guessing setter draws from.
var wordList = []string{
	"javascript", "computer", "elephant", "rainbow",
	"adventure", "chocolate", "mountain", "butterfly",
	"symphony", "universe", "treasure", "diamond",
	"hurricane", "telescope", "wonderful", "fantastic",
}
