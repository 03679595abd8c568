package prompt

import (
	"fmt"

	"github.com/oukeidos/maintrans/internal/language"
)

const (
	observationMarker = "Observation: "
	solutionMarker    = "Solution: "
)

const outputTemplate = `Respond using exactly this format and nothing else:
Observation: <translated observation>
Solution: <translated solution>`

// fidelity holds the language-specific instruction for technical records.
var fidelity = map[language.Code]string{
	language.French: `You translate French railway maintenance reports into English.
- Keep rolling-stock abbreviations as written (MCM, DMC, BCU, PMR, HS, AVM, LSS) and expand none of them.
- "HS" means out of service; translate surrounding words but keep the abbreviation.
- Terms such as "rame", "bogie", "coupleur", "intersalle" and "attelage" are rolling-stock parts: use train set, bogie, coupler, inter-car and coupling.
- Accents may have been stripped from the source; read "a" as "à" where grammar requires it.`,
	language.Italian: `You translate Italian railway maintenance reports into English.
- Keep test names, document references and codes (e.g. RTB, TRNIT-DT) unchanged.
- "Carrello" is a bogie, "pantografo" a pantograph, "banco prova" a test bench.
- Accents may have been stripped from the source; infer the intended word from context.`,
	language.Kazakh: `You translate Kazakh locomotive maintenance reports into English.
- Reports often mix Kazakh and Russian; translate both into English.
- Keep unit numbers, section labels and equipment codes (e.g. 2ТЭД, КП, ЭПТ) transliterated to Latin letters without expanding them.
- Do not guess the meaning of unknown abbreviations; transliterate them.`,
	language.Russian: `You translate Russian locomotive maintenance reports into English.
- Keep equipment codes transliterated to Latin letters (ТЭД becomes TED, КП becomes KP, ЭПТ becomes EPT).
- "Букса" is an axle box, "суфле" a bellows, "тормозной рукав" a brake hose, "кабина" a cab.
- Keep numbers attached to their unit or position exactly as written.`,
	language.Spanish: `You translate Spanish railway and tramway maintenance reports into English.
- Keep car and seat identifiers (R1, C3, 14A, AST, COP, UTR) unchanged.
- "Enchufe" is a power socket or plug, "butaca" a seat, "persiana" a window blind, "bogie" stays bogie.
- Accents may have been stripped from the source; infer the intended word from context.`,
	language.Swedish: `You translate Swedish railway maintenance reports into English.
- Keep vehicle and car designations (DMA, DMB, T0, K4, BG1) and work-order numbers unchanged.
- "Boggi" is a bogie, "strömavtagare" a pantograph, "koppelkåpa" a coupler hood, "påkörning" a collision.
- Letters å, ä and ö may have been folded to a and o in the source; read the intended word from context.`,
}

const genericFidelity = `You translate railway maintenance reports into English.
- Keep codes, identifiers, part numbers and units exactly as written.
- Translate technical terms with their standard English rolling-stock equivalents.`

const technicalTemplate = `%s
- Deliver only the translation. Do not add commentary, notes or a preamble.
- Never invent information that is not present in the source.
- If a field is empty, leave it empty after its label.

%s

Source language: %s
Observation: %s
Solution: %s`

// Technical builds one prompt translating observation and solution together.
// Languages without a dedicated branch use a generic instruction.
func Technical(lang language.Code, observation, solution string) string {
	instr, ok := fidelity[lang]
	if !ok {
		instr = genericFidelity
	}
	return fmt.Sprintf(technicalTemplate, instr, outputTemplate, lang.Name(), observation, solution)
}

const rewriteTemplate = `You edit English railway maintenance reports written by technicians.
- Rewrite each field into clear, grammatical English.
- Keep every code, identifier, part number, unit and measurement exactly as written.
- Do not add information, causes or actions that are not stated.
- If a field is empty, leave it empty after its label.

%s

Observation: %s
Solution: %s`

// EnglishRewrite builds the readability prompt for records already in English.
func EnglishRewrite(observation, solution string) string {
	return fmt.Sprintf(rewriteTemplate, outputTemplate, observation, solution)
}
