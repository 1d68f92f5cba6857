package report

import (
	"fmt"
	"os/exec"

	"github.com/shards-pm/shards/log"
)

// Sign invokes an external signer binary (a minisign/signify-compatible
// tool) over outputPath, producing outputPath+".sig". No signing happens
// in-process: this package never implements its own cryptographic signing,
// only invocation of an external tool. Failure is logged and non-fatal.
func Sign(signer, outputPath, secretKeyPath string) (sigPath string, ok bool) {
	sigPath = outputPath + ".sig"
	cmd := exec.Command(signer, "-S", "-s", secretKeyPath, "-m", outputPath, "-x", sigPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		log.Warnf("report: signing failed: %v: %s", err, string(out))
		return "", false
	}
	return sigPath, true
}

// VerifySignature invokes the same external signer in verify mode to check
// a detached signature against a public key. It is a library entry point
// only; no shards-compliance subcommand calls it.
func VerifySignature(signer, reportPath, sigPath, publicKeyPath string) error {
	cmd := exec.Command(signer, "-V", "-p", publicKeyPath, "-m", reportPath, "-x", sigPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("signature verification failed: %w: %s", err, string(out))
	}
	return nil
}
