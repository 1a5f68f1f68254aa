package domain

import (
	"fmt"
	"strings"
)

type Namespace string

const (
	// NamespaceRoot holds singleton records such as the framework status.
	NamespaceRoot Namespace = ""

	NamespaceShared    Namespace = "memory/shared"
	NamespaceRoles     Namespace = "memory/agents"
	NamespaceProjects  Namespace = "memory/projects"
	NamespacePatterns  Namespace = "memory/patterns"
	NamespaceDecisions Namespace = "memory/decisions"

	NamespaceSessions     Namespace = "communication/messages"
	NamespaceAudit        Namespace = "communication/context"
	NamespaceCoordination Namespace = "communication/decisions"
)

const (
	FrameworkStatusKey = "framework-status"

	sessionKeyPrefix = "session_"
	auditKeyPrefix   = "prompt_enhancement_"
	roleMemorySuffix = "-memory"
)

// StoreNamespaces lists every namespace a session start provisions.
func StoreNamespaces() []Namespace {
	return []Namespace{
		NamespaceShared,
		NamespaceRoles,
		NamespaceProjects,
		NamespacePatterns,
		NamespaceDecisions,
		NamespaceSessions,
		NamespaceAudit,
		NamespaceCoordination,
	}
}

func (n Namespace) String() string {
	if n == NamespaceRoot {
		return "<root>"
	}
	return string(n)
}

func (n Namespace) Validate() error {
	if n == NamespaceRoot {
		return nil
	}

	for _, segment := range strings.Split(string(n), "/") {
		if segment == "" || segment == "." || segment == ".." {
			return fmt.Errorf("invalid namespace %q", string(n))
		}
	}

	return nil
}

func RoleMemoryKey(role RoleID) string {
	return string(role) + roleMemorySuffix
}

func SessionKey(id SessionID) string {
	return sessionKeyPrefix + string(id)
}

func AuditKey(id string) string {
	return auditKeyPrefix + id
}

// ValidateKey rejects keys that could escape their namespace.
func ValidateKey(key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}
	if trimmed != key {
		return fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidKey, key)
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." || strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return nil
}
