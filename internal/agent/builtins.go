package agent

import "github.com/gumruyanzh/xavier/internal/model"

// builtinDescriptors is the default agent roster shipped with Xavier,
// covering the languages and roles the matcher's technology map (spec
// §4.5) and task-type map route against.
var builtinDescriptors = []model.AgentDescriptor{
	{
		Name: "project-manager", DisplayName: "Project Manager", Color: "#6B7280", Emoji: "📋", ShortLabel: "PM",
		SkillKeywords: []string{"planning", "estimation", "sprint", "roadmap", "backlog"},
		AllowedTools:  []string{"read", "write"},
	},
	{
		Name: "context-manager", DisplayName: "Context Manager", Color: "#9CA3AF", Emoji: "🧭", ShortLabel: "CTX",
		SkillKeywords: []string{"handoff", "summary", "continuity"},
		AllowedTools:  []string{"read"},
	},
	{
		Name: "python", DisplayName: "Python Engineer", Color: "#3776AB", Emoji: "🐍", ShortLabel: "PY",
		Language: "python", Frameworks: []string{"django", "fastapi", "flask"},
		FilePatterns:  []string{"*.py"},
		SkillKeywords: []string{"python", "django", "fastapi", "flask", "pytest"},
		AllowedTools:  []string{"read", "write", "exec"},
		TestCommand:   "pytest", CoverageCommand: "pytest --cov",
	},
	{
		Name: "go", DisplayName: "Go Engineer", Color: "#00ADD8", Emoji: "🐹", ShortLabel: "GO",
		Language: "go", Frameworks: []string{"net/http", "gin", "cobra"},
		FilePatterns:  []string{"*.go"},
		SkillKeywords: []string{"go", "golang", "goroutine", "channel"},
		AllowedTools:  []string{"read", "write", "exec"},
		TestCommand:   "go test ./...", CoverageCommand: "go test -cover ./...",
	},
	{
		Name: "frontend", DisplayName: "Frontend Engineer", Color: "#61DAFB", Emoji: "🎨", ShortLabel: "FE",
		Language: "typescript", Frameworks: []string{"react", "vue", "svelte"},
		FilePatterns:  []string{"*.ts", "*.tsx", "*.jsx", "*.css"},
		SkillKeywords: []string{"react", "vue", "css", "ui", "component", "frontend"},
		AllowedTools:  []string{"read", "write", "exec"},
		TestCommand:   "npm test", CoverageCommand: "npm run coverage",
	},
	{
		Name: "test-runner", DisplayName: "Test Runner", Color: "#22C55E", Emoji: "✅", ShortLabel: "QA",
		SkillKeywords: []string{"test", "coverage", "qa", "regression"},
		AllowedTools:  []string{"read", "exec"},
	},
	{
		Name: "devops", DisplayName: "DevOps Engineer", Color: "#F97316", Emoji: "⚙️", ShortLabel: "OPS",
		Frameworks:    []string{"docker", "kubernetes", "terraform"},
		SkillKeywords: []string{"ci", "cd", "deploy", "docker", "kubernetes", "terraform", "infra"},
		AllowedTools:  []string{"read", "write", "exec"},
	},
	{
		Name: "java", DisplayName: "Java Engineer", Color: "#EA2D2E", Emoji: "☕", ShortLabel: "JAVA",
		Language: "java", Frameworks: []string{"spring", "maven", "gradle"},
		FilePatterns:  []string{"*.java"},
		SkillKeywords: []string{"java", "spring", "maven", "gradle", "junit"},
		AllowedTools:  []string{"read", "write", "exec"},
		TestCommand:   "mvn test", CoverageCommand: "mvn jacoco:report",
	},
	{
		Name: "ruby", DisplayName: "Ruby Engineer", Color: "#CC342D", Emoji: "💎", ShortLabel: "RB",
		Language: "ruby", Frameworks: []string{"rails", "sinatra"},
		FilePatterns:  []string{"*.rb"},
		SkillKeywords: []string{"ruby", "rails", "rspec"},
		AllowedTools:  []string{"read", "write", "exec"},
		TestCommand:   "bundle exec rspec", CoverageCommand: "bundle exec rspec --coverage",
	},
	{
		Name: "rust", DisplayName: "Rust Engineer", Color: "#DEA584", Emoji: "🦀", ShortLabel: "RS",
		Language: "rust", Frameworks: []string{"tokio", "actix"},
		FilePatterns:  []string{"*.rs"},
		SkillKeywords: []string{"rust", "cargo", "tokio", "actix"},
		AllowedTools:  []string{"read", "write", "exec"},
		TestCommand:   "cargo test", CoverageCommand: "cargo tarpaulin",
	},
	{
		Name: "swift", DisplayName: "Swift Engineer", Color: "#FA7343", Emoji: "🐦", ShortLabel: "SW",
		Language: "swift", Frameworks: []string{"swiftui", "vapor"},
		FilePatterns:  []string{"*.swift"},
		SkillKeywords: []string{"swift", "swiftui", "ios", "vapor"},
		AllowedTools:  []string{"read", "write", "exec"},
		TestCommand:   "swift test", CoverageCommand: "swift test --enable-code-coverage",
	},
	{
		Name: "kotlin", DisplayName: "Kotlin Engineer", Color: "#7F52FF", Emoji: "🤖", ShortLabel: "KT",
		Language: "kotlin", Frameworks: []string{"ktor", "spring"},
		FilePatterns:  []string{"*.kt"},
		SkillKeywords: []string{"kotlin", "ktor", "android"},
		AllowedTools:  []string{"read", "write", "exec"},
		TestCommand:   "./gradlew test", CoverageCommand: "./gradlew koverReport",
	},
	{
		Name: "elixir", DisplayName: "Elixir Engineer", Color: "#4B275F", Emoji: "💧", ShortLabel: "EX",
		Language: "elixir", Frameworks: []string{"phoenix", "otp"},
		FilePatterns:  []string{"*.ex", "*.exs"},
		SkillKeywords: []string{"elixir", "phoenix", "otp", "genserver"},
		AllowedTools:  []string{"read", "write", "exec"},
		TestCommand:   "mix test", CoverageCommand: "mix coveralls",
	},
	{
		Name: "haskell", DisplayName: "Haskell Engineer", Color: "#5D4F85", Emoji: "λ", ShortLabel: "HS",
		Language: "haskell", Frameworks: []string{"servant", "yesod"},
		FilePatterns:  []string{"*.hs"},
		SkillKeywords: []string{"haskell", "servant", "monad"},
		AllowedTools:  []string{"read", "write", "exec"},
		TestCommand:   "stack test", CoverageCommand: "stack test --coverage",
	},
	{
		Name: "r", DisplayName: "R Engineer", Color: "#276DC3", Emoji: "📊", ShortLabel: "R",
		Language: "r", Frameworks: []string{"shiny", "tidyverse"},
		FilePatterns:  []string{"*.R", "*.Rmd"},
		SkillKeywords: []string{"r", "shiny", "tidyverse", "statistics"},
		AllowedTools:  []string{"read", "write", "exec"},
		TestCommand:   "Rscript -e 'testthat::test_dir(\"tests\")'",
	},
}
