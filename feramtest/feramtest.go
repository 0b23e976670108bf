//Package feramtest provides a stand-in for the feram binary, for tests that
//run whole protocols without the simulator.
package feramtest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

//Options change the behavior of the fake simulator.
type Options struct {
	//FailAt makes the run at this temperature (as written in the settings
	//file) exit with status 3.
	FailAt string
	//NoCoord makes the simulator skip the last .coord file.
	NoCoord bool
}

//Install writes the fake simulator to a temporary directory of t and returns
//its path. Like feram, it takes a settings file <name>.feram and writes, next
//to it in the working directory, <name>.avg, <name>.log, <name>.dipoRavg and
//<name>.<steps>.coord for a lattice of size L, every dipole being
//(0.1, 0, 0). The kelvin of the settings becomes the first column of the .avg.
func Install(t testing.TB, opt Options) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feram")
	s := strings.ReplaceAll(script, "@FAILAT@", opt.FailAt)
	nocoord := "0"
	if opt.NoCoord {
		nocoord = "1"
	}
	s = strings.ReplaceAll(s, "@NOCOORD@", nocoord)
	if err := os.WriteFile(path, []byte(s), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

const script = `#!/bin/sh
in="$1"
if [ ! -f "$in" ]; then
	echo "cannot open $in" >&2
	exit 2
fi
name="${in%.feram}"
get() { sed -n "s/^$1 = //p" "$in" | head -n 1; }
kelvin=$(get kelvin)
therm=$(get n_thermalize)
avg=$(get n_average)
L=$(get L)
if [ -n "@FAILAT@" ] && [ "$kelvin" = "@FAILAT@" ]; then
	echo "feram: diverged at $kelvin K" >&2
	exit 3
fi
last=$(printf '%010d' $((therm + avg)))
echo "feram (fake) $in kelvin=$kelvin"
if [ -f "$name.restart" ]; then
	echo "restart from $name.restart"
fi
awk -v k="$kelvin" 'BEGIN {
	printf "%s 0 0 0 0 0 0 0 0 0 0.1 0 0", k
	for (i = 0; i < 30; i++) printf " 0"
	printf "\n"
}' > "$name.avg"
awk -v k="$kelvin" 'BEGIN {
	e = k * 1.5 * 8.617e-5
	for (s = 1; s <= 2; s++) {
		printf "TIME_STEP %d\n", s
		printf "dipo_kinetic = %.8f\n", e
		printf "total_energy = %.8f\n", -0.01 * s
		printf "<u> = 0.1 0 0 sigma 0.01 0.01 0.01\n"
		printf "TIME_STEP_END\n"
	}
}' > "$name.log"
lattice() {
	echo "$L" | awk '{
		for (z = 0; z < $3; z++) for (y = 0; y < $2; y++) for (x = 0; x < $1; x++)
			printf "%d %d %d 0.1 0 0\n", x, y, z
	}'
}
lattice > "$name.dipoRavg"
if [ "@NOCOORD@" = "0" ]; then
	lattice > "$name.$last.coord"
fi
exit 0
`
