package idle

// QuestionTable is the curated pool the QuestionGenerator draws from.
var QuestionTable = []string{
	"What's something small that made you smile this week?",
	"If you could drop everything for a day, where would you go?",
	"What song have you had on repeat lately?",
	"What's a skill you keep meaning to pick up?",
	"What did you want to be when you were ten?",
	"What's the best meal you've had this month?",
	"Is there a book or show you'd recommend without hesitation?",
	"What's one thing you're quietly proud of?",
	"Early bird or night owl, and has it always been that way?",
	"What's a place you've never been that keeps pulling at you?",
	"What's something you changed your mind about this year?",
	"If your week had a title, what would it be?",
}
