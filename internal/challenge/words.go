package challenge

// Word is a reading-challenge target with its hint.
type Word struct {
	Text string
	Hint string
}

// DefaultWords is the built-in reading word bank.
var DefaultWords = []Word{
	{Text: "cat", Hint: "A small furry pet that says meow."},
	{Text: "dog", Hint: "A loyal pet that barks and wags its tail."},
	{Text: "sun", Hint: "It shines in the sky during the day."},
	{Text: "tree", Hint: "It has leaves, branches and a trunk."},
	{Text: "fish", Hint: "It swims in water and has fins."},
	{Text: "book", Hint: "You read it. It has pages."},
	{Text: "apple", Hint: "A round red or green fruit."},
	{Text: "house", Hint: "A building where a family lives."},
	{Text: "water", Hint: "You drink it when you are thirsty."},
	{Text: "friend", Hint: "Someone you like to play with."},
	{Text: "bridge", Hint: "It lets you cross over a river."},
	{Text: "castle", Hint: "A big stone home for a king or queen."},
	{Text: "dragon", Hint: "A story creature that breathes fire."},
	{Text: "planet", Hint: "Earth is one of these."},
	{Text: "garden", Hint: "A place where flowers and vegetables grow."},
	{Text: "rainbow", Hint: "Colorful arc in the sky after rain."},
}
