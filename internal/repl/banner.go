package repl

import (
	"fmt"
	"io"

	"github.com/numerus-lang/numerus/internal/term"
)

const banner = `
    ╔═══════════════════════════════════════════════════════════════════╗
    ║                                                                   ║
    ║                      N U M E R U S  + +                           ║
    ║                                                                   ║
    ║             "Salve, Programmator! Roma Aeterna Est!"              ║
    ║                                                                   ║
    ║                        Anno Domini MMXXV                          ║
    ║                                                                   ║
    ╚═══════════════════════════════════════════════════════════════════╝`

// PrintBanner writes the interactive session banner.
func PrintBanner(w io.Writer, c term.Colorizer) {
	fmt.Fprintln(w, c.Bold(c.Yellow(banner)))
	fmt.Fprintf(w, "    %s\n\n", c.Cyan("  Scribe 'AUXILIUM' pro auxilio, 'EXITUS' pro exire."))
}

// PrintMiniBanner writes the short header shown before running a file.
func PrintMiniBanner(w io.Writer, c term.Colorizer) {
	rule := "═══════════════════════════════════════════"
	fmt.Fprintln(w, c.Yellow(rule))
	fmt.Fprintf(w, "%s %s %s\n", c.Yellow("║"), c.Bold("NUMERUS++ INTERPRETATOREM"), c.Yellow("║"))
	fmt.Fprintln(w, c.Yellow(rule))
	fmt.Fprintln(w)
}

var helpSections = []struct {
	title string
	lines []string
}{
	{"DECLARATIONES (Declarations):", []string{
		"DECLARA X EST 42      - Declara variable X cum valore 42",
		"DECLARA Y EST XIV     - Declara Y cum numero Romano XIV",
	}},
	{"ASSIGNATIONES (Assignments):", []string{
		"X EST 100             - Assigna 100 ad X",
		"X EST X ADDIUS Y      - Assigna X + Y ad X",
	}},
	{"OPERATORES (Operators):", []string{
		"ADDIUS      (+)  -  Additio",
		"SUBTRAHE    (-)  -  Subtractio",
		"MULTIPLICA  (*)  -  Multiplicatio",
		"DIVIDE      (/)  -  Divisio",
	}},
	{"OUTPUT (SCRIBE):", []string{
		`SCRIBE("Valor: " ADDIUS X)      - Imprime in Romanis`,
		`SCRIBE(ARABIZA(X))              - Imprime in Arabicis`,
		`SCRIBE(ROMANIZA(42))            - Numerus ad Romanos`,
	}},
	{"CEREMONIALE:", []string{
		"AVTEM                 - Ceremoniale no-op",
		"NOTA: commentarius    - Commentarius (ignoratur)",
	}},
	{"MANDATA (REPL commands):", []string{
		"EXITUS, :quit         - Exi",
		"AUXILIUM, :help       - Hoc auxilium",
		":vars                 - Monstra variabiles",
		":reset                - Dele omnes variabiles",
		":load <file>          - Exsequi file",
		":save <file>          - Serva historiam in file",
		":history              - Monstra historiam",
		":clear                - Purga terminalem",
		":debug on|off         - Modus debug",
	}},
	{"EXEMPLUM:", []string{
		"DECLARA A EST XV",
		"DECLARA B EST 10",
		"DECLARA C EST A ADDIUS B",
		`SCRIBE("Summa: " ADDIUS C)`,
	}},
}

// PrintHelp writes the AUXILIUM text.
func PrintHelp(w io.Writer, c term.Colorizer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, c.Yellow("AUXILIUM (Help)"))
	for _, section := range helpSections {
		fmt.Fprintln(w)
		fmt.Fprintln(w, c.Yellow("  "+section.title))
		for _, line := range section.lines {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
	fmt.Fprintln(w)
}

// PrintFarewell writes the goodbye shown on EXITUS or end of input.
func PrintFarewell(w io.Writer, c term.Colorizer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "    %s\n", c.Bold(c.Green("VALE! (Farewell, noble programmer!)")))
	fmt.Fprintf(w, "    %s\n", c.Yellow("Gloria Romae in perpetuum!"))
	fmt.Fprintln(w)
}
