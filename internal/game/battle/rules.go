package battle

// Rules is the flat permission table governing what actions are allowed
// during a battle. No cross-field invariants are enforced here; the
// notoriety resolver interprets combinations, taking the more restrictive
// reading when flags contradict each other.
type Rules struct {
	AllowBeneficial    bool
	AllowHarmful       bool
	AllowHousing       bool
	AllowPets          bool
	AllowSpawn         bool
	AllowSpeech        bool
	CanBeDamaged       bool
	CanDamageEnemyTeam bool
	CanDamageOwnTeam   bool
	CanDie             bool
	CanHeal            bool
	CanHealEnemyTeam   bool
	CanHealOwnTeam     bool
	CanMount           bool
	CanFly             bool
	CanResurrect       bool
	CanUseEscapeMenu   bool
}

// Rule flag bits for the serialized form.
const (
	ruleAllowBeneficial uint32 = 1 << iota
	ruleAllowHarmful
	ruleAllowHousing
	ruleAllowPets
	ruleAllowSpawn
	ruleAllowSpeech
	ruleCanBeDamaged
	ruleCanDamageEnemyTeam
	ruleCanDamageOwnTeam
	ruleCanDie
	ruleCanHeal
	ruleCanHealEnemyTeam
	ruleCanHealOwnTeam
	ruleCanMount
	ruleCanFly
	ruleCanResurrect
	ruleCanUseEscapeMenu
)

// DefaultRules returns the standard team-battle permission set:
// fighting between teams, healing inside them.
func DefaultRules() Rules {
	return Rules{
		AllowBeneficial:    true,
		AllowHarmful:       true,
		AllowPets:          true,
		AllowSpeech:        true,
		CanBeDamaged:       true,
		CanDamageEnemyTeam: true,
		CanDie:             true,
		CanHeal:            true,
		CanHealOwnTeam:     true,
		CanMount:           true,
		CanResurrect:       true,
		CanUseEscapeMenu:   true,
	}
}

// Flags packs the rule table into its serialized bitset form.
func (r Rules) Flags() uint32 {
	var f uint32
	set := func(on bool, bit uint32) {
		if on {
			f |= bit
		}
	}
	set(r.AllowBeneficial, ruleAllowBeneficial)
	set(r.AllowHarmful, ruleAllowHarmful)
	set(r.AllowHousing, ruleAllowHousing)
	set(r.AllowPets, ruleAllowPets)
	set(r.AllowSpawn, ruleAllowSpawn)
	set(r.AllowSpeech, ruleAllowSpeech)
	set(r.CanBeDamaged, ruleCanBeDamaged)
	set(r.CanDamageEnemyTeam, ruleCanDamageEnemyTeam)
	set(r.CanDamageOwnTeam, ruleCanDamageOwnTeam)
	set(r.CanDie, ruleCanDie)
	set(r.CanHeal, ruleCanHeal)
	set(r.CanHealEnemyTeam, ruleCanHealEnemyTeam)
	set(r.CanHealOwnTeam, ruleCanHealOwnTeam)
	set(r.CanMount, ruleCanMount)
	set(r.CanFly, ruleCanFly)
	set(r.CanResurrect, ruleCanResurrect)
	set(r.CanUseEscapeMenu, ruleCanUseEscapeMenu)
	return f
}

// RulesFromFlags unpacks the serialized bitset form.
func RulesFromFlags(f uint32) Rules {
	return Rules{
		AllowBeneficial:    f&ruleAllowBeneficial != 0,
		AllowHarmful:       f&ruleAllowHarmful != 0,
		AllowHousing:       f&ruleAllowHousing != 0,
		AllowPets:          f&ruleAllowPets != 0,
		AllowSpawn:         f&ruleAllowSpawn != 0,
		AllowSpeech:        f&ruleAllowSpeech != 0,
		CanBeDamaged:       f&ruleCanBeDamaged != 0,
		CanDamageEnemyTeam: f&ruleCanDamageEnemyTeam != 0,
		CanDamageOwnTeam:   f&ruleCanDamageOwnTeam != 0,
		CanDie:             f&ruleCanDie != 0,
		CanHeal:            f&ruleCanHeal != 0,
		CanHealEnemyTeam:   f&ruleCanHealEnemyTeam != 0,
		CanHealOwnTeam:     f&ruleCanHealOwnTeam != 0,
		CanMount:           f&ruleCanMount != 0,
		CanFly:             f&ruleCanFly != 0,
		CanResurrect:       f&ruleCanResurrect != 0,
		CanUseEscapeMenu:   f&ruleCanUseEscapeMenu != 0,
	}
}
