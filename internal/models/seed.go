package models

func intPtr(v int) *int { return &v }

// DefaultAchievements retourne le catalogue de succès par défaut.
func DefaultAchievements() []Achievement {
	return []Achievement{
		// Appels
		{Slug: "first_call", Name: "First Call", Description: "Make your first sales call", Icon: "📞",
			Category: CategoryCalls, Rarity: RarityCommon, RequirementField: CounterCalls, RequirementValue: 1,
			XPReward: 50, CoinsReward: 10},
		{Slug: "call_veteran", Name: "Call Veteran", Description: "Complete 25 sales calls", Icon: "🎯",
			Category: CategoryCalls, Rarity: RarityUncommon, RequirementField: CounterCalls, RequirementValue: 25,
			XPReward: 150, CoinsReward: 30},
		{Slug: "call_expert", Name: "Call Expert", Description: "Complete 50 sales calls", Icon: "⭐",
			Category: CategoryCalls, Rarity: RarityRare, RequirementField: CounterCalls, RequirementValue: 50,
			XPReward: 300, CoinsReward: 75},
		{Slug: "call_master", Name: "Call Master", Description: "Complete 100 sales calls", Icon: "👑",
			Category: CategoryCalls, Rarity: RarityEpic, RequirementField: CounterCalls, RequirementValue: 100,
			XPReward: 500, CoinsReward: 150},
		{Slug: "call_legend", Name: "Call Legend", Description: "Complete 250 sales calls", Icon: "🏆",
			Category: CategoryCalls, Rarity: RarityLegendary, RequirementField: CounterCalls, RequirementValue: 250,
			XPReward: 1000, CoinsReward: 300},

		// Rendez-vous
		{Slug: "meeting_starter", Name: "Meeting Starter", Description: "Book your first meeting", Icon: "🤝",
			Category: CategoryMeetings, Rarity: RarityCommon, RequirementField: CounterMeetings, RequirementValue: 1,
			XPReward: 75, CoinsReward: 15},
		{Slug: "meeting_pro", Name: "Meeting Pro", Description: "Book 10 meetings", Icon: "📅",
			Category: CategoryMeetings, Rarity: RarityUncommon, RequirementField: CounterMeetings, RequirementValue: 10,
			XPReward: 200, CoinsReward: 40},
		{Slug: "meeting_machine", Name: "Meeting Machine", Description: "Book 25 meetings", Icon: "⚡",
			Category: CategoryMeetings, Rarity: RarityRare, RequirementField: CounterMeetings, RequirementValue: 25,
			XPReward: 400, CoinsReward: 80},

		// Entraînement
		{Slug: "training_rookie", Name: "Training Rookie", Description: "Complete your first training session", Icon: "🎓",
			Category: CategoryTraining, Rarity: RarityCommon, RequirementField: CounterTraining, RequirementValue: 1,
			XPReward: 50, CoinsReward: 10},
		{Slug: "objection_warrior", Name: "Objection Warrior", Description: "Complete 10 training sessions", Icon: "🛡️",
			Category: CategoryTraining, Rarity: RarityUncommon, RequirementField: CounterTraining, RequirementValue: 10,
			XPReward: 250, CoinsReward: 50},
		{Slug: "training_master", Name: "Training Master", Description: "Complete 25 training sessions", Icon: "⚔️",
			Category: CategoryTraining, Rarity: RarityRare, RequirementField: CounterTraining, RequirementValue: 25,
			XPReward: 500, CoinsReward: 100},

		// Assiduité
		{Slug: "streak_3_days", Name: "Getting Started", Description: "Maintain a 3-day activity streak", Icon: "🔥",
			Category: CategoryStreak, Rarity: RarityCommon, RequirementField: CounterStreak, RequirementValue: 3,
			XPReward: 100, CoinsReward: 20},
		{Slug: "streak_7_days", Name: "Consistency King", Description: "Maintain a 7-day activity streak", Icon: "🎯",
			Category: CategoryStreak, Rarity: RarityUncommon, RequirementField: CounterStreak, RequirementValue: 7,
			XPReward: 250, CoinsReward: 50},
		{Slug: "streak_14_days", Name: "Dedication Master", Description: "Maintain a 14-day activity streak", Icon: "💪",
			Category: CategoryStreak, Rarity: RarityRare, RequirementField: CounterStreak, RequirementValue: 14,
			XPReward: 500, CoinsReward: 100},
		{Slug: "streak_30_days", Name: "Unstoppable Force", Description: "Maintain a 30-day activity streak", Icon: "🚀",
			Category: CategoryStreak, Rarity: RarityLegendary, RequirementField: CounterStreak, RequirementValue: 30,
			XPReward: 1000, CoinsReward: 250},

		// Paliers de niveau
		{Slug: "level_5", Name: "Rising Star", Description: "Reach Level 5", Icon: "⭐",
			Category: CategoryMilestone, Rarity: RarityCommon, RequirementField: CounterLevel, RequirementValue: 5,
			XPReward: 200, CoinsReward: 50},
		{Slug: "level_10", Name: "Seasoned Pro", Description: "Reach Level 10", Icon: "🌟",
			Category: CategoryMilestone, Rarity: RarityUncommon, RequirementField: CounterLevel, RequirementValue: 10,
			XPReward: 400, CoinsReward: 100},
		{Slug: "level_15", Name: "Expert Operator", Description: "Reach Level 15", Icon: "💫",
			Category: CategoryMilestone, Rarity: RarityRare, RequirementField: CounterLevel, RequirementValue: 15,
			XPReward: 750, CoinsReward: 200},
		{Slug: "level_25", Name: "Sales Champion", Description: "Reach Level 25", Icon: "🏆",
			Category: CategoryMilestone, Rarity: RarityLegendary, RequirementField: CounterLevel, RequirementValue: 25,
			XPReward: 2000, CoinsReward: 500},

		// Affaires conclues
		{Slug: "first_deal", Name: "First Victory", Description: "Close your first deal", Icon: "💼",
			Category: CategoryPipeline, Rarity: RarityCommon, RequirementField: CounterDeals, RequirementValue: 1,
			XPReward: 100, CoinsReward: 25},
		{Slug: "deal_closer", Name: "Deal Closer", Description: "Close 5 deals", Icon: "🎯",
			Category: CategoryPipeline, Rarity: RarityUncommon, RequirementField: CounterDeals, RequirementValue: 5,
			XPReward: 300, CoinsReward: 75},
		{Slug: "sales_ace", Name: "Sales Ace", Description: "Close 10 deals", Icon: "💎",
			Category: CategoryPipeline, Rarity: RarityRare, RequirementField: CounterDeals, RequirementValue: 10,
			XPReward: 600, CoinsReward: 150},
	}
}

// DefaultQuests retourne le catalogue de quêtes par défaut.
func DefaultQuests() []QuestTemplate {
	return []QuestTemplate{
		// Quotidiennes
		{Name: "Morning Warrior", Description: "Complete 5 calls today",
			ActionKind: ActionCallCompleted, TargetAmount: 5, XPReward: 150, CoinsReward: 25, Difficulty: 2, Type: QuestDaily},
		{Name: "Objection Slayer", Description: "Handle 3 objections today",
			ActionKind: ActionObjectionHandled, TargetAmount: 3, XPReward: 100, CoinsReward: 20, Difficulty: 3, Type: QuestDaily},
		{Name: "Meeting Maker", Description: "Book 2 meetings today",
			ActionKind: ActionMeetingBooked, TargetAmount: 2, XPReward: 200, CoinsReward: 40, Difficulty: 4, Type: QuestDaily},
		{Name: "Training Sprint", Description: "Complete a training session today",
			ActionKind: ActionTrainingCompleted, TargetAmount: 1, XPReward: 100, CoinsReward: 20, Difficulty: 1, Type: QuestDaily},

		// Hebdomadaires
		{Name: "Weekly Warrior", Description: "Complete 25 calls this week",
			ActionKind: ActionCallCompleted, TargetAmount: 25, XPReward: 500, CoinsReward: 100, Difficulty: 3, Type: QuestWeekly},
		{Name: "Pipeline Builder", Description: "Generate $50K in pipeline this week",
			ActionKind: ActionPipelineCreated, TargetAmount: 50000, XPReward: 750, CoinsReward: 150, Difficulty: 4, Type: QuestWeekly},

		// Mensuelles
		{Name: "Monthly Closer", Description: "Close 3 deals this month",
			ActionKind: ActionDealClosed, TargetAmount: 3, XPReward: 1500, CoinsReward: 300, Difficulty: 4, Type: QuestMonthly},

		// Jalons
		{Name: "Century Club", Description: "Complete 100 total calls",
			ActionKind: ActionCallCompleted, TargetAmount: 100, XPReward: 1000, CoinsReward: 200, Difficulty: 5, Type: QuestMilestone},
		{Name: "Pipeline Master", Description: "Generate $1M in total pipeline",
			ActionKind: ActionPipelineCreated, TargetAmount: 1000000, XPReward: 5000, CoinsReward: 1000, Difficulty: 5, Type: QuestMilestone},
	}
}

// DefaultShopItems retourne le catalogue de boutique par défaut.
func DefaultShopItems() []ShopItem {
	return []ShopItem{
		{Name: "Half Day Off", Description: "Friday afternoon off - perfect for early weekend start",
			Category: ShopReward, CoinsCost: 500, Icon: "☕", MaxPerUser: intPtr(4), SortOrder: 1, IsActive: true},
		{Name: "Team Lunch", Description: "Treat your team to a nice lunch",
			Category: ShopReward, CoinsCost: 800, Icon: "🍽️", MaxPerUser: intPtr(2), SortOrder: 2, IsActive: true},
		{Name: "Amazon €50", Description: "Amazon gift card for your shopping needs",
			Category: ShopReward, CoinsCost: 1000, Icon: "🎁", MaxPerUser: intPtr(3), SortOrder: 3, IsActive: true},
		{Name: "Full Day Off", Description: "Extra vacation day - enjoy a long weekend",
			Category: ShopReward, CoinsCost: 2000, Icon: "🏖️", MaxPerUser: intPtr(2), SortOrder: 4, IsActive: true},
		{Name: "XP Boost (24h)", Description: "Double XP for 24 hours",
			Category: ShopPowerUp, CoinsCost: 300, Icon: "⚡", MaxPerUser: intPtr(5), SortOrder: 5, IsActive: true},
		{Name: "Gym Pass", Description: "1 month premium gym membership",
			Category: ShopReward, CoinsCost: 1500, Icon: "💪", MaxPerUser: intPtr(2), SortOrder: 6, IsActive: true},
		{Name: "Netflix +3mo", Description: "Netflix premium subscription for 3 months",
			Category: ShopSubscription, CoinsCost: 700, Icon: "🎬", MaxPerUser: intPtr(2), SortOrder: 7, IsActive: true},
		{Name: "Spotify +3mo", Description: "Spotify premium subscription for 3 months",
			Category: ShopSubscription, CoinsCost: 600, Icon: "🎵", MaxPerUser: intPtr(2), SortOrder: 8, IsActive: true},
		{Name: "Golden Avatar Frame", Description: "Show off with a shiny golden frame",
			Category: ShopCosmetic, CoinsCost: 400, Icon: "🖼️", MaxPerUser: intPtr(1), SortOrder: 9, IsActive: true},
		{Name: "Hotel Stay", Description: "1 night at a 4-star hotel",
			Category: ShopReward, CoinsCost: 3500, Icon: "🏨", StockQuantity: intPtr(10), MaxPerUser: intPtr(1), SortOrder: 10, IsActive: true},
		{Name: "Tech Gadget", Description: "Latest tech gadget of your choice",
			Category: ShopReward, CoinsCost: 4000, Icon: "📱", StockQuantity: intPtr(5), MaxPerUser: intPtr(1), SortOrder: 11, IsActive: true},
		{Name: "Gaming Setup", Description: "Premium gaming setup upgrade",
			Category: ShopReward, CoinsCost: 5000, Icon: "🎮", StockQuantity: intPtr(3), MaxPerUser: intPtr(1), SortOrder: 12, IsActive: true},
	}
}
