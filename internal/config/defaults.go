package config

// defaultConfig returns the compiled-in calibration. The keyword lists target
// readers living in France (expats and immigrants) and match the tuning the
// editorial team converged on for the manual curation workflow.
func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Input:   InputConfig{Path: "data/raw_articles.json"},
		Output:  OutputConfig{Dir: "data/live"},
		Cache: CacheConfig{
			Path:               "data/state/seen_fingerprints.db",
			RetentionHours:     24,
			LockPath:           "data/state/curator.lock",
			LockTimeoutSeconds: 10,
		},
		Curation: CurationConfig{
			ThresholdTotal: 18.0,
			WindowHours:    24,
			MaxPerSource:   10,
			MaxTotal:       30,
		},
		Dedupe: DedupeConfig{
			TitleSimilarityThreshold:    0.75,
			CombinedSimilarityThreshold: 0.85,
		},
		Scoring: defaultScoring(),
	}
}

func defaultScoring() ScoringConfig {
	return ScoringConfig{
		HighRelevanceKeywords: []string{
			// immigration and legal status
			"immigration", "visa", "carte de séjour", "naturalisation", "préfecture",
			"titre de séjour", "étranger", "expatrié", "résidence", "citoyenneté",
			// daily life and services
			"sécurité sociale", "caf", "pôle emploi", "impôts", "logement", "santé",
			"transport", "sncf", "ratp", "école", "université", "formation",
			"banque", "assurance", "mutuelle", "médecin", "hôpital",
			// government and politics affecting daily life
			"gouvernement", "président", "assemblée nationale", "sénat", "maire",
			"région", "département", "commune", "élection",
			"réforme", "loi", "décret", "politique sociale",
			// economy and work
			"emploi", "chômage", "smic", "salaire", "retraite", "cotisation",
			"entreprise", "inflation", "pouvoir d'achat", "marché du travail",
			// language and integration
			"français langue étrangère", "fle", "apprentissage", "intégration",
			"cours de français", "alliance française",
			// regional life
			"paris", "région parisienne", "banlieue", "quartier", "arrondissement",
			"ile-de-france",
		},
		MediumRelevanceKeywords: []string{
			"france", "français", "national", "pays", "état", "société",
			"population", "citoyen", "public", "social", "communauté",
			"actualité", "débat", "polémique", "manifestation",
			"grève", "syndical", "droit", "justice", "tribunal",
			"technologie", "numérique", "intelligence artificielle",
			"environnement", "climat", "pollution", "transport public",
			"écologie", "énergie",
		},
		LowRelevanceKeywords: []string{
			"people", "célébrité", "star", "télé-réalité", "scandale",
			"paparazzi", "instagram", "tiktok", "influenceur",
			"gossip", "rumeur", "vie privée",
		},
		RelevantCategories: []string{
			"politique", "société", "économie", "france", "national",
			"immigration", "education", "culture", "santé", "social",
		},
		QualityIndicators: map[string][]string{
			"analysis":  {"analyse", "enquête", "investigation", "reportage", "dossier"},
			"expertise": {"expert", "spécialiste", "professeur", "chercheur", "selon"},
			"sources":   {"source", "témoin", "déclaration", "interview", "entretien"},
			"context":   {"contexte", "histoire", "explication", "pourquoi"},
		},
		ClickbaitIndicators: []string{
			"cliquez", "buzz", "choc", "scandaleux", "incroyable",
		},
		BreakingIndicators: []string{
			"breaking", "urgent", "alerte", "important", "majeur",
			"historique", "exceptionnel", "première fois", "record",
			"crise", "urgence", "décision", "annonce", "officiel",
		},
		PolicyKeywords: []string{
			"gouvernement", "ministre", "président", "assemblée", "sénat",
			"loi", "décret", "réforme", "politique",
		},
		EconomicKeywords: []string{
			"économie", "emploi", "chômage", "inflation", "prix", "salaire",
			"impôt", "budget", "crise", "marché", "entreprise",
		},
		SocialKeywords: []string{
			"société", "social", "manifestation", "grève", "éducation",
			"santé", "logement", "transport", "sécurité", "justice",
		},
		ReputableSources: []string{
			"le monde", "le figaro", "france info", "france 24", "rfi",
			"libération", "le parisien", "afp",
		},
		InternationalIndicators: []string{
			"états-unis", "chine", "russie", "ukraine", "gaza",
		},
		FranceContext: []string{
			"france", "français", "hexagone", "paris", "gouvernement",
		},
		LocalIndicators: []string{
			"commune", "village", "petit", "local",
		},
		MajorCities: []string{
			"paris", "lyon", "marseille", "toulouse", "nice", "nantes",
		},
		Weights: ScoringWeights{
			QualityBase:         5.0,
			RelevanceBase:       3.0,
			ImportanceBase:      4.0,
			HighKeywordWeight:   0.8,
			HighKeywordCap:      4.0,
			MediumKeywordWeight: 0.3,
			MediumKeywordCap:    2.0,
			LowKeywordPenalty:   1.0,
			LowKeywordCap:       3.0,
			BreakingBonus:       2.0,
			PolicyBonus:         2.0,
			EconomicBonus:       1.5,
			SocialBonus:         1.5,
			ReputationBonus:     1.0,
		},
	}
}
