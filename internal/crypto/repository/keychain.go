package repository

// keychainServicePrefix namespaces keychain items created by this module.
const keychainServicePrefix = "com.journalcrypt.datakeys"

func keychainService(namespace string) string {
	if namespace == "" {
		return keychainServicePrefix
	}
	return keychainServicePrefix + "." + namespace
}
