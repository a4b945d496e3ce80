package lesson

import (
	"fmt"

	"github.com/pep299/lessonfeed/internal/model"
)

var levelInstructions = map[model.Level]string{
	model.LevelBeginner:     "Beginner (TOEIC 300-500). Pick 5 basic vocabulary words. 2 grammar points (present/past tense, passive voice). Japanese explanations should be gentle and beginner-friendly.",
	model.LevelIntermediate: "Intermediate (TOEIC 600-750). Pick 6 intermediate vocabulary words. 3 grammar points (relative clauses, subjunctive, participle clauses).",
	model.LevelAdvanced:     "Advanced (TOEIC 800+). Pick 7 advanced vocabulary words. 3 advanced grammar points (inversion, cleft sentences, nominalization). Include business/academic expressions.",
}

// lessonSchema is the single JSON object the model must return
const lessonSchema = `{"headline":"The full English headline","body":"A 4-6 sentence English news paragraph expanding on the summary","translation":"上記bodyの自然な日本語訳","vocabulary":[{"word":"English word","pronunciation":"カタカナ発音","meaning":"日本語の意味","example":"Example sentence using this word","pos":"part of speech"}],"grammar":[{"pattern":"Grammar pattern name","explanation":"日本語での文法解説","sentence":"The relevant English sentence from body","breakdown":"文の構造の日本語解説"}],"quiz":[{"question":"Question text","options":["A","B","C","D"],"answer":0,"explanation":"日本語での解説"}]}`

const promptTemplate = `You are an English teacher for Japanese learners, styled like CNN English Express magazine.

Here is today's news article:
Headline: %s
Source: %s
Summary: %s

Create an English lesson based on this article. Return ONLY a valid JSON object. No markdown, no backticks, no text before or after the JSON:
%s

Level: %s
Include exactly 3 quiz questions (vocabulary, grammar, and comprehension).`

// LevelInstruction returns the prompt line for level
func LevelInstruction(level model.Level) string {
	if instruction, ok := levelInstructions[level]; ok {
		return instruction
	}
	return levelInstructions[model.LevelIntermediate]
}

// BuildPrompt renders the lesson prompt for article at level
func BuildPrompt(article model.ArticleInput, level model.Level) string {
	return fmt.Sprintf(promptTemplate, article.Title, article.Source, article.Summary, lessonSchema, LevelInstruction(level))
}
