// buildinfoprint is imported for the side effect of printing build
// provenance to os.Stderr
package buildinfoprint

import "github.com/andrewsu/ABCB/buildinfo"

func init() {
	buildinfo.PrintToStdErr()
}
