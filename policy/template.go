package policy

// StarterTemplate is the fully commented starter file `policy init` writes.
const StarterTemplate = `# Dependency policy for this project.
# See: shards-compliance policy show

version: "1"

rules:
  sources:
    # Non-empty list = allowlist; empty = no host restriction.
    allowed_hosts: []
      # - github.com

    # Per-host allowed organizations/owners.
    allowed_orgs: {}
      # github.com: [your-org]

    # Reject any dependency resolved from a local filesystem path.
    deny_path_dependencies: false

  dependencies:
    blocked: []
      # - name: some-package
      #   reason: "known to be abandoned"

    minimum_versions: {}
      # some-package: ">= 1.2.0"

  # Reserved for a future release; accepted but not yet enforced.
  freshness:
    max_age_days: 0
    require_recent_commit: 0

  security:
    # Warn on any dependency with no declared license.
    require_license: false

    # Accepted but not enforced: policy check reports no finding for it.
    require_checksum: false

    # Error on any dependency that runs a postinstall script.
    block_postinstall: false

    # Warn (rather than error) on a postinstall script.
    audit_postinstall: true

  custom: []
    # - name: flag-unstable-forks
    #   pattern: "^unstable-"
    #   action: warn
    #   reason: "flag experimental forks for review"
`
