package models

// Courbe de progression : niveaux 1 à 5 à seuils fixes, puis croissance
// accélérée (incrément de 7000 XP multiplié par 1.2 à chaque niveau).
const (
	baseIncrement    = 7000
	incrementGrowth  = 1.2
	lastFixedLevel   = 5
	lastFixedXP      = 15000
	levelUpCoinBonus = 50 // multiplié par le nouveau niveau
)

// fixedThresholds[n-1] = XP cumulé requis pour atteindre le niveau n (n <= 6).
var fixedThresholds = []int64{0, 1000, 3000, 6000, 10000, 15000}

// LevelForXP calcule le niveau d'un joueur à partir de son XP cumulé.
// La fonction est monotone croissante en xp.
func LevelForXP(xp int64) int {
	if xp < fixedThresholds[1] {
		return 1
	}
	for level := 2; level <= lastFixedLevel; level++ {
		if xp < fixedThresholds[level] {
			return level
		}
	}

	// Au-delà du niveau 5 : seuils à croissance accélérée
	level := lastFixedLevel
	required := int64(lastFixedXP)
	increment := int64(baseIncrement)

	for xp >= required {
		level++
		required += increment
		increment = int64(float64(increment) * incrementGrowth)
	}

	return level
}

// XPThresholdForLevel retourne l'XP cumulé requis pour atteindre un niveau.
// Inverse de LevelForXP : pour tout xp >= 0,
// XPThresholdForLevel(LevelForXP(xp)) <= xp < XPThresholdForLevel(LevelForXP(xp)+1).
func XPThresholdForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	if level <= len(fixedThresholds) {
		return fixedThresholds[level-1]
	}

	required := int64(lastFixedXP)
	increment := int64(baseIncrement)
	for l := len(fixedThresholds) + 1; l <= level; l++ {
		required += increment
		increment = int64(float64(increment) * incrementGrowth)
	}
	return required
}

// LevelProgress représente la progression vers le prochain niveau.
type LevelProgress struct {
	Current    int64   `json:"current"`
	Max        int64   `json:"max"`
	Percentage float64 `json:"percentage"` // clampé à [0,1]
}

// ProgressToNextLevel calcule la progression dans le niveau courant.
func ProgressToNextLevel(xp int64) LevelProgress {
	if xp < 0 {
		xp = 0
	}

	level := LevelForXP(xp)
	lower := XPThresholdForLevel(level)
	upper := XPThresholdForLevel(level + 1)

	progress := xp - lower
	span := upper - lower

	pct := float64(progress) / float64(span)
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}

	return LevelProgress{
		Current:    progress,
		Max:        span,
		Percentage: pct,
	}
}

// LevelUpCoinBonus retourne le bonus de pièces accordé lors d'un passage de niveau.
func LevelUpCoinBonus(newLevel int) int64 {
	return int64(newLevel) * levelUpCoinBonus
}

// DefaultCoinReward retourne la récompense de pièces par défaut pour un
// gain d'XP : 10% du montant, arrondi à l'inférieur. Les montants négatifs
// ne rapportent rien.
func DefaultCoinReward(xpAmount int64) int64 {
	if xpAmount <= 0 {
		return 0
	}
	return xpAmount / 10
}
