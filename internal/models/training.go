package models

// TrainingChoice est une réponse possible à une question d'entraînement.
// Chaque choix rapporte de l'XP ; le meilleur en rapporte le plus.
type TrainingChoice struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	XPReward int64  `json:"-"`
	IsBest   bool   `json:"-"`
	Feedback string `json:"-"`
}

// TrainingQuestion est un scénario d'objection joué comme un combat de boss.
type TrainingQuestion struct {
	ID         string           `json:"id"`
	BossName   string           `json:"boss_name"`
	Difficulty int              `json:"difficulty"`
	Prompt     string           `json:"prompt"`
	Category   string           `json:"category"`
	Choices    []TrainingChoice `json:"choices"`
}

// Choice retourne le choix correspondant à l'ID, ou nil.
func (q *TrainingQuestion) Choice(choiceID string) *TrainingChoice {
	for i := range q.Choices {
		if q.Choices[i].ID == choiceID {
			return &q.Choices[i]
		}
	}
	return nil
}

// BestChoice retourne le meilleur choix de la question.
func (q *TrainingQuestion) BestChoice() *TrainingChoice {
	for i := range q.Choices {
		if q.Choices[i].IsBest {
			return &q.Choices[i]
		}
	}
	return nil
}

// TrainingResult est le résultat d'une réponse soumise.
type TrainingResult struct {
	QuestionID   string       `json:"question_id"`
	ChoiceID     string       `json:"choice_id"`
	IsBest       bool         `json:"is_best"`
	Feedback     string       `json:"feedback"`
	BestChoiceID string       `json:"best_choice_id"`
	Award        *AwardResult `json:"award"`
}

// DefaultTrainingQuestions retourne le catalogue d'entraînement.
func DefaultTrainingQuestions() []TrainingQuestion {
	return []TrainingQuestion{
		{
			ID:         "price_objection_dragon",
			BossName:   "Price Objection Dragon",
			Difficulty: 2,
			Prompt:     `The prospect says: "Your price is too high compared to your competitors."`,
			Category:   "pricing",
			Choices: []TrainingChoice{
				{ID: "a", Text: "You're right, let me see if I can get you a discount.",
					XPReward: 10, Feedback: "Immediately giving discounts shows weakness and devalues your product."},
				{ID: "b", Text: "I understand price is important. Can you help me understand what specific value you're looking for?",
					XPReward: 25, IsBest: true, Feedback: "Perfect! You're focusing on value rather than just price, and gathering more information."},
				{ID: "c", Text: "Our competitors can't match our quality and service.",
					XPReward: 15, Feedback: "While defending your product is good, this sounds defensive without backing it up."},
				{ID: "d", Text: "Price shouldn't be your main concern here.",
					XPReward: 5, Feedback: "This dismisses the prospect's concern and can damage rapport."},
			},
		},
		{
			ID:         "timeline_troll",
			BossName:   "Timeline Troll",
			Difficulty: 3,
			Prompt:     `The prospect says: "We're not looking to make a decision for at least 6 months."`,
			Category:   "timeline",
			Choices: []TrainingChoice{
				{ID: "a", Text: "No problem, I'll follow up with you in 6 months.",
					XPReward: 5, Feedback: "You're giving up too easily without understanding why they need to wait."},
				{ID: "b", Text: "I understand timing is important. What would need to happen for you to move faster?",
					XPReward: 20, Feedback: "Good question, but you could dig deeper into the implications of waiting."},
				{ID: "c", Text: "What's driving that timeline? And what might be the cost of waiting 6 months?",
					XPReward: 30, IsBest: true, Feedback: "Excellent! You're understanding their constraints while creating urgency around the cost of inaction."},
				{ID: "d", Text: "That seems like a long time. Are you sure you can't decide sooner?",
					XPReward: 8, Feedback: "This sounds pushy without understanding their reasoning."},
			},
		},
		{
			ID:         "decision_maker_demon",
			BossName:   "Decision Maker Demon",
			Difficulty: 4,
			Prompt:     `You've been talking to someone for 30 minutes and they say: "I'll need to run this by my boss."`,
			Category:   "decision-making",
			Choices: []TrainingChoice{
				{ID: "a", Text: "Great, when can we schedule a call with your boss?",
					XPReward: 20, Feedback: "Direct but you should have qualified decision-making authority earlier."},
				{ID: "b", Text: "I should have asked earlier - what's your role in the decision-making process?",
					XPReward: 25, IsBest: true, Feedback: "Perfect! You're acknowledging your mistake and getting clarity on the process."},
				{ID: "c", Text: "What do you think your boss will say?",
					XPReward: 15, Feedback: "This helps gauge their opinion but doesn't move the process forward effectively."},
				{ID: "d", Text: "Why don't you have the authority to make this decision?",
					XPReward: 5, Feedback: "This sounds confrontational and could offend the prospect."},
			},
		},
	}
}
