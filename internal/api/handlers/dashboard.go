package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Dashboard(c *gin.Context) {
	html := `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Fable API Dashboard</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            background: linear-gradient(135deg, #f6a821 0%, #d94f70 100%);
            min-height: 100vh;
            padding: 20px;
        }
        .container {
            max-width: 1200px;
            margin: 0 auto;
        }
        .header {
            text-align: center;
            color: white;
            margin-bottom: 40px;
        }
        .header h1 {
            font-size: 2.5em;
            margin-bottom: 10px;
            text-shadow: 0 2px 4px rgba(0,0,0,0.3);
        }
        .header p {
            opacity: 0.9;
            font-size: 1.1em;
        }
        .grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(280px, 1fr));
            gap: 20px;
            margin-bottom: 20px;
        }
        .card {
            background: white;
            border-radius: 12px;
            padding: 24px;
            box-shadow: 0 4px 6px rgba(0,0,0,0.1);
            transition: transform 0.2s;
        }
        .card:hover {
            transform: translateY(-4px);
            box-shadow: 0 8px 12px rgba(0,0,0,0.15);
        }
        .card h2 {
            color: #333;
            font-size: 1.2em;
            margin-bottom: 16px;
            display: flex;
            align-items: center;
            gap: 8px;
        }
        .card .value {
            font-size: 2em;
            font-weight: bold;
            color: #d94f70;
            margin-bottom: 8px;
        }
        .card .label {
            color: #666;
            font-size: 0.9em;
        }
        .status-badge {
            display: inline-block;
            padding: 4px 12px;
            border-radius: 12px;
            font-size: 0.85em;
            font-weight: 600;
        }
        .status-healthy {
            background: #d4edda;
            color: #155724;
        }
        .status-error {
            background: #f8d7da;
            color: #721c24;
        }
        .metric-row {
            display: flex;
            justify-content: space-between;
            padding: 8px 0;
            border-bottom: 1px solid #eee;
        }
        .metric-row:last-child {
            border-bottom: none;
        }
        .metric-label {
            color: #666;
        }
        .metric-value {
            font-weight: 600;
            color: #333;
        }
        .footer {
            text-align: center;
            color: white;
            margin-top: 40px;
            opacity: 0.8;
        }
        .loading {
            text-align: center;
            color: white;
            font-size: 1.2em;
        }
        .error {
            background: #f8d7da;
            color: #721c24;
            padding: 16px;
            border-radius: 8px;
            margin-bottom: 20px;
        }
    </style>
</head>
<body>
    <div class="container">
            <div class="header">
                <h1>&#128218; Fable API Dashboard</h1>
                <p>Real-time monitoring and metrics</p>
            </div>

        <div id="loading" class="loading">Loading metrics...</div>
        <div id="error" class="error" style="display: none;"></div>
        <div id="dashboard" style="display: none;">
            <div class="grid">
                <div class="card">
                    <h2>&#128202; Status</h2>
                    <div class="value">
                        <span id="status" class="status-badge status-healthy">Healthy</span>
                    </div>
                    <div class="label">Last updated: <span id="timestamp">-</span></div>
                </div>

                <div class="card">
                    <h2>&#9201;&#65039; Uptime</h2>
                    <div class="value" id="uptime">-</div>
                    <div class="label">Since last restart</div>
                </div>

                <div class="card">
                    <h2>&#128190; Memory</h2>
                    <div class="value" id="memory">-</div>
                    <div class="label">Current allocation</div>
                </div>
            </div>

            <div class="grid">
                <div class="card">
                    <h2>&#128260; Goroutines</h2>
                    <div class="value" id="goroutines">-</div>
                    <div class="label">Active concurrent tasks</div>
                </div>

                <div class="card">
                    <h2>&#128421;&#65039; System Info</h2>
                    <div class="metric-row">
                        <span class="metric-label">Go Version</span>
                        <span class="metric-value" id="go-version">-</span>
                    </div>
                    <div class="metric-row">
                        <span class="metric-label">Total Memory</span>
                        <span class="metric-value" id="mem-total">-</span>
                    </div>
                    <div class="metric-row">
                        <span class="metric-label">GC Runs</span>
                        <span class="metric-value" id="num-gc">-</span>
                    </div>
                </div>

                <div class="card">
                    <h2>&#128214; Story Engines</h2>
                    <div class="metric-row">
                        <span class="metric-label">Available</span>
                        <span class="metric-value" id="engine-count">-</span>
                    </div>
                    <div class="metric-row">
                        <span class="metric-label">Names</span>
                        <span class="metric-value" id="engine-names" style="font-size: 0.85em;">-</span>
                    </div>
                </div>
            </div>

            <div class="grid">
                <div class="card">
                    <h2>&#128230; Version Info</h2>
                    <div class="metric-row">
                        <span class="metric-label">Version</span>
                        <span class="metric-value" id="app-version">-</span>
                    </div>
                    <div class="metric-row">
                        <span class="metric-label">Started At</span>
                        <span class="metric-value" id="start-time">-</span>
                    </div>
                </div>

                <div class="card">
                    <h2>&#128279; Quick Links</h2>
                    <div class="metric-row">
                        <span class="metric-label">Health Check</span>
                        <a href="/health" target="_blank" class="metric-value">View</a>
                    </div>
                    <div class="metric-row">
                        <span class="metric-label">Service Status</span>
                        <a href="/api/v1/status" target="_blank" class="metric-value">View</a>
                    </div>
                    <div class="metric-row">
                        <span class="metric-label">Metrics API</span>
                        <a href="/api/metrics" target="_blank" class="metric-value">View JSON</a>
                    </div>
                </div>
            </div>
        </div>

        <div class="footer">
            <p>Auto-refreshes every 5 seconds</p>
        </div>
    </div>

    <script>
        async function fetchMetrics() {
            try {
                const response = await fetch('/api/metrics');
                if (!response.ok) throw new Error('Failed to fetch metrics');

                const data = await response.json();

                // Update UI
                document.getElementById('loading').style.display = 'none';
                document.getElementById('error').style.display = 'none';
                document.getElementById('dashboard').style.display = 'block';

                // Status
                const statusBadge = document.getElementById('status');
                statusBadge.textContent = data.status.charAt(0).toUpperCase() + data.status.slice(1);
                statusBadge.className = 'status-badge ' + (data.status === 'healthy' ? 'status-healthy' : 'status-error');

                // Timestamp
                const timestamp = new Date(data.timestamp);
                document.getElementById('timestamp').textContent = timestamp.toLocaleTimeString();

                // Uptime
                document.getElementById('uptime').textContent = data.uptime;

                // Memory
                document.getElementById('memory').textContent = data.system.mem_alloc_mb + ' MB';

                // Goroutines
                document.getElementById('goroutines').textContent = data.system.num_goroutine;

                // System info
                document.getElementById('go-version').textContent = data.system.go_version;
                document.getElementById('mem-total').textContent = data.system.mem_total_mb + ' MB';
                document.getElementById('num-gc').textContent = data.system.num_gc;

                // Version info
                document.getElementById('app-version').textContent = data.version.substring(0, 8);
                const startTime = new Date(data.start_time);
                document.getElementById('start-time').textContent = startTime.toLocaleString();

                // Engine info
                const engines = data.api.engines || [];
                document.getElementById('engine-count').textContent = engines.length;
                document.getElementById('engine-names').textContent = engines.join(', ') || 'None';

            } catch (error) {
                document.getElementById('loading').style.display = 'none';
                document.getElementById('dashboard').style.display = 'none';
                const errorDiv = document.getElementById('error');
                errorDiv.textContent = 'Error loading metrics: ' + error.message;
                errorDiv.style.display = 'block';
            }
        }

        // Initial load
        fetchMetrics();

        // Auto-refresh every 5 seconds
        setInterval(fetchMetrics, 5000);
    </script>
</body>
</html>`

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, html)
}
