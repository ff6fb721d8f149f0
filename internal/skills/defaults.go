package skills

// DefaultSeed returns the built-in dictionaries, aliases and alternative groups.
func DefaultSeed() Seed {
	return Seed{
		Programming: []string{
			"python", "java", "c++", "javascript", "typescript", "react", "angular", "vue",
			"sql", "nosql", "c#", "php", "ruby", "kotlin", "swift", "scala", "rust",
		},
		Technical: []string{
			"cloud computing", "aws", "azure", "gcp", "devops", "networking", "cybersecurity",
			"data analysis", "machine learning", "ai", "docker", "podman", "kubernetes",
			"linux", "windows server", "mysql", "postgresql", "mongodb", "oracle", "terraform",
		},
		Soft: []string{
			"communication", "teamwork", "problem-solving", "leadership", "time management",
			"adaptability", "interpersonal skills", "critical thinking", "negotiation",
			"conflict resolution",
		},
		Management: []string{
			"project management", "team leadership", "strategic planning", "budgeting",
			"delegation", "performance management", "change management", "risk management",
			"decision making",
		},
		Aliases: map[string]string{
			"js":                      "javascript",
			"ts":                      "typescript",
			"reactjs":                 "react",
			"angularjs":               "angular",
			"vuejs":                   "vue",
			"cpp":                     "c++",
			"csharp":                  "c#",
			"c sharp":                 "c#",
			"k8s":                     "kubernetes",
			"postgres":                "postgresql",
			"mongo":                   "mongodb",
			"ml":                      "machine learning",
			"artificial intelligence": "ai",
			"amazon web services":     "aws",
			"google cloud platform":   "gcp",
			"google cloud":            "gcp",
			"dev ops":                 "devops",
			"communicator":            "communication",
			"communications":          "communication",
			"problemsolving":          "problem-solving",
			"problem solving":         "problem-solving",
			"team work":               "teamwork",
			"decisionmaking":          "decision making",
		},
		Groups: [][]string{
			{"mysql", "postgresql", "mongodb", "oracle"},
			{"aws", "azure", "gcp"},
			{"react", "angular", "vue"},
			{"docker", "podman"},
		},
	}
}
