// Package quiz provides the language quizzes and a resumable quiz session.
package quiz

// Question is one multiple-choice question; Answer indexes Choices.
type Question struct {
	Prompt  string
	Choices []string
	Answer  int
}

// DefaultLanguage is served for languages without a question bank.
const DefaultLanguage = "python"

var bank = map[string][]Question{
	"python": {
		{Prompt: "What is the correct way to define a function?", Choices: []string{"function add(a,b):", "def add(a, b):", "fn add(a,b)"}, Answer: 1},
		{Prompt: "How do you create a variable in Python?", Choices: []string{"var x = 5", "x = 5", "int x = 5"}, Answer: 1},
		{Prompt: "Which keyword is used for loops?", Choices: []string{"foreach", "for", "loop"}, Answer: 1},
		{Prompt: "How do you write a comment?", Choices: []string{"// comment", "# comment", "/* comment */"}, Answer: 1},
		{Prompt: "Which data type holds True/False?", Choices: []string{"boolean", "bool", "bit"}, Answer: 1},
		{Prompt: "How to check if x equals 5?", Choices: []string{"x == 5", "x = 5", "x === 5"}, Answer: 0},
		{Prompt: "What creates a list in Python?", Choices: []string{"[]", "{}", "()"}, Answer: 0},
		{Prompt: "How to get user input?", Choices: []string{"input()", "read()", "scan()"}, Answer: 0},
	},
	"javascript": {
		{Prompt: "Declare a constant variable", Choices: []string{"var x", "let x", "const x"}, Answer: 2},
		{Prompt: "How to define a function?", Choices: []string{"function myFunc() {}", "def myFunc() {}", "func myFunc() {}"}, Answer: 0},
		{Prompt: "Which is a comparison operator?", Choices: []string{"=", "==", "==="}, Answer: 2},
		{Prompt: "How to write a single-line comment?", Choices: []string{"# comment", "// comment", "/* comment */"}, Answer: 1},
		{Prompt: "What creates an array?", Choices: []string{"[]", "{}", "()"}, Answer: 0},
		{Prompt: "How to log to console?", Choices: []string{"print()", "console.log()", "System.out.println()"}, Answer: 1},
		{Prompt: "Which loop runs at least once?", Choices: []string{"for", "while", "do...while"}, Answer: 2},
		{Prompt: "How to declare a variable that can change?", Choices: []string{"const x", "let x", "var x"}, Answer: 1},
	},
	"java": {
		{Prompt: "Primitive integer type?", Choices: []string{"Integer", "int", "Num"}, Answer: 1},
		{Prompt: "Main method signature?", Choices: []string{"public static void main(String[] args)", "void main()", "static main()"}, Answer: 0},
		{Prompt: "How to print to console?", Choices: []string{"console.log()", "System.out.println()", "print()"}, Answer: 1},
		{Prompt: "Which is a wrapper class?", Choices: []string{"int", "Integer", "number"}, Answer: 1},
		{Prompt: "How to declare a constant?", Choices: []string{"const int x", "final int x", "static int x"}, Answer: 1},
		{Prompt: "Which keyword creates a class?", Choices: []string{"class", "struct", "object"}, Answer: 0},
		{Prompt: "How to create an array?", Choices: []string{"int[] arr", "array int arr", "int arr[]"}, Answer: 0},
		{Prompt: "Which is the boolean type?", Choices: []string{"bool", "boolean", "Boolean"}, Answer: 1},
	},
	"cpp": {
		{Prompt: "Output to console?", Choices: []string{"System.out", "console.log", "std::cout"}, Answer: 2},
		{Prompt: "How to include standard I/O?", Choices: []string{"#include <stdio.h>", "#include <iostream>", "import iostream"}, Answer: 1},
		{Prompt: "Main function return type?", Choices: []string{"void", "int", "main"}, Answer: 1},
		{Prompt: "Which declares a pointer?", Choices: []string{"int* ptr", "int ptr", "pointer int ptr"}, Answer: 0},
		{Prompt: "How to get user input?", Choices: []string{"std::cin", "scanf", "input()"}, Answer: 0},
		{Prompt: "Which is a loop?", Choices: []string{"foreach", "for", "repeat"}, Answer: 1},
		{Prompt: "How to declare a constant?", Choices: []string{"const int x", "final int x", "static int x"}, Answer: 0},
		{Prompt: "What ends a statement?", Choices: []string{";", ".", ":"}, Answer: 0},
	},
}

// Questions returns the bank for lang, or the default bank when lang has none.
func Questions(lang string) []Question {
	qs, ok := bank[lang]
	if !ok {
		qs = bank[DefaultLanguage]
	}
	out := make([]Question, len(qs))
	copy(out, qs)
	return out
}

// Has reports whether lang has its own question bank.
func Has(lang string) bool {
	_, ok := bank[lang]
	return ok
}

var languages = []string{"python", "javascript", "java", "cpp"}

// Languages lists the languages with a question bank in display order.
func Languages() []string {
	return append([]string(nil), languages...)
}

// MaxScore is the number of questions in the bank served for lang.
func MaxScore(lang string) int {
	return len(Questions(lang))
}

var displayNames = map[string]string{
	"python":     "Python",
	"javascript": "JavaScript",
	"java":       "Java",
	"cpp":        "C++",
}

// DisplayName is the human label for lang.
func DisplayName(lang string) string {
	if name, ok := displayNames[lang]; ok {
		return name
	}
	return lang
}
