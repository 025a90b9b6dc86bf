// Package liturgy maps Sabbath dates to the weekly Torah reading.
package liturgy

import "strconv"

// Parsha is an index into the weekly reading name table.
// Combined readings have their own index; NONE marks a Sabbath whose
// reading is replaced by a festival reading.
type Parsha int

const (
	NONE Parsha = iota
	BERESHIS
	NOACH
	LECH_LECHA
	VAYERA
	CHAYEI_SARA
	TOLDOS
	VAYETZEI
	VAYISHLACH
	VAYESHEV
	MIKETZ
	VAYIGASH
	VAYECHI
	SHEMOS
	VAERA
	BO
	BESHALACH
	YISRO
	MISHPATIM
	TERUMAH
	TETZAVEH
	KI_SISA
	VAYAKHEL
	PEKUDEI
	VAYIKRA
	TZAV
	SHMINI
	TAZRIA
	METZORA
	ACHREI_MOS
	KEDOSHIM
	EMOR
	BEHAR
	BECHUKOSAI
	BAMIDBAR
	NASSO
	BEHAALOSCHA
	SHLACH
	KORACH
	CHUKAS
	BALAK
	PINCHAS
	MATOS
	MASEI
	DEVARIM
	VAESCHANAN
	EIKEV
	REEH
	SHOFTIM
	KI_SEITZEI
	KI_SAVO
	NITZAVIM
	VAYEILECH
	HAAZINU
	VZOS_HABERACHA
	VAYAKHEL_PEKUDEI
	TAZRIA_METZORA
	ACHREI_MOS_KEDOSHIM
	BEHAR_BECHUKOSAI
	CHUKAS_BALAK
	MATOS_MASEI
	NITZAVIM_VAYEILECH

	numParshiyos
)

var parshaNames = [numParshiyos]string{
	"NONE",
	"BERESHIS",
	"NOACH",
	"LECH_LECHA",
	"VAYERA",
	"CHAYEI_SARA",
	"TOLDOS",
	"VAYETZEI",
	"VAYISHLACH",
	"VAYESHEV",
	"MIKETZ",
	"VAYIGASH",
	"VAYECHI",
	"SHEMOS",
	"VAERA",
	"BO",
	"BESHALACH",
	"YISRO",
	"MISHPATIM",
	"TERUMAH",
	"TETZAVEH",
	"KI_SISA",
	"VAYAKHEL",
	"PEKUDEI",
	"VAYIKRA",
	"TZAV",
	"SHMINI",
	"TAZRIA",
	"METZORA",
	"ACHREI_MOS",
	"KEDOSHIM",
	"EMOR",
	"BEHAR",
	"BECHUKOSAI",
	"BAMIDBAR",
	"NASSO",
	"BEHAALOSCHA",
	"SHLACH",
	"KORACH",
	"CHUKAS",
	"BALAK",
	"PINCHAS",
	"MATOS",
	"MASEI",
	"DEVARIM",
	"VAESCHANAN",
	"EIKEV",
	"REEH",
	"SHOFTIM",
	"KI_SEITZEI",
	"KI_SAVO",
	"NITZAVIM",
	"VAYEILECH",
	"HAAZINU",
	"VZOS_HABERACHA",
	"VAYAKHEL_PEKUDEI",
	"TAZRIA_METZORA",
	"ACHREI_MOS_KEDOSHIM",
	"BEHAR_BECHUKOSAI",
	"CHUKAS_BALAK",
	"MATOS_MASEI",
	"NITZAVIM_VAYEILECH",
}

// String returns the reading name used in schedule lines.
func (p Parsha) String() string {
	if p.IsValid() {
		return parshaNames[p]
	}
	return "Parsha(" + strconv.Itoa(int(p)) + ")"
}

// IsValid checks if p is in the name table.
func (p Parsha) IsValid() bool {
	return p >= NONE && p < numParshiyos
}

// combined maps the first half of a doubled reading to the combined index.
var combined = map[Parsha]Parsha{
	VAYAKHEL:   VAYAKHEL_PEKUDEI,
	TAZRIA:     TAZRIA_METZORA,
	ACHREI_MOS: ACHREI_MOS_KEDOSHIM,
	BEHAR:      BEHAR_BECHUKOSAI,
	CHUKAS:     CHUKAS_BALAK,
	MATOS:      MATOS_MASEI,
	NITZAVIM:   NITZAVIM_VAYEILECH,
}

// fromTorahOrder converts one-based positions in Torah order (Bereshis=1)
// into a Parsha. Two consecutive positions form a combined reading.
func fromTorahOrder(nums []int) (Parsha, bool) {
	switch len(nums) {
	case 0:
		return NONE, true
	case 1:
		p := Parsha(nums[0])
		return p, p > NONE && p <= VZOS_HABERACHA
	case 2:
		if nums[1] != nums[0]+1 {
			return NONE, false
		}
		p, ok := combined[Parsha(nums[0])]
		return p, ok
	default:
		return NONE, false
	}
}
