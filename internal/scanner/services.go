package scanner

var commonServices = map[int]string{
	21: "ftp", 22: "ssh", 23: "telnet", 25: "smtp", 53: "dns",
	80: "http", 110: "pop3", 111: "rpcbind", 135: "msrpc",
	139: "netbios-ssn", 143: "imap", 443: "https", 445: "microsoft-ds",
	465: "smtps", 587: "submission", 631: "ipp", 993: "imaps",
	995: "pop3s", 1433: "mssql", 1521: "oracle", 1723: "pptp",
	3306: "mysql", 3389: "ms-wbt-server", 5432: "postgresql",
	5900: "vnc", 5901: "vnc-1", 6379: "redis", 8080: "http-proxy",
	8443: "https-alt", 8888: "http-alt", 9090: "zeus-admin",
	9200: "elasticsearch", 27017: "mongodb",
}

// ServiceName returns the well-known service for a TCP port, or "".
func ServiceName(port int) string {
	return commonServices[port]
}
