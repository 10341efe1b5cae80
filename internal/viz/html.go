package viz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Layout string // "force", "circle", "grid" or "concentric"
	Title  string
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{
		Layout: "force",
		Title:  "Graph Query Result",
	}
}

// ValidLayouts lists the supported layout algorithm names.
var ValidLayouts = []string{"force", "circle", "grid", "concentric"}

// GenerateHTML generates a self-contained HTML page for the graph.
func GenerateHTML(graph *Graph, opts HTMLOptions) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}

	if err := validateLayout(opts.Layout); err != nil {
		return "", err
	}
	if opts.Title == "" {
		opts.Title = DefaultOptions().Title
	}

	if graph.IsEmpty() {
		return generateEmptyHTML(), nil
	}

	graphJSON, err := graph.ToCytoscapeJSON()
	if err != nil {
		return "", err
	}
	legendJSON, err := json.Marshal(graph.Legend)
	if err != nil {
		return "", fmt.Errorf("marshaling legend to JSON: %w", err)
	}

	data := templateData{
		Title:      opts.Title,
		GraphJSON:  template.JS(graphJSON),
		LegendJSON: template.JS(legendJSON),
		Layout:     layoutToCytoscape(opts.Layout),
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// validateLayout checks if the layout option is valid.
func validateLayout(layout string) error {
	switch layout {
	case "", "force", "circle", "grid", "concentric":
		return nil
	default:
		return fmt.Errorf("invalid layout %q: must be force, circle, grid, or concentric", layout)
	}
}

// templateData holds data for the HTML template.
type templateData struct {
	Title      string
	GraphJSON  template.JS
	LegendJSON template.JS
	Layout     string
}

// layoutToCytoscape converts user-friendly layout names to Cytoscape.js layout algorithm names.
func layoutToCytoscape(layout string) string {
	switch layout {
	case "circle", "grid", "concentric":
		return layout
	default:
		return "cose"
	}
}

// generateEmptyHTML returns HTML for an empty graph state.
func generateEmptyHTML() string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Graph Query Result - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state h2 {
      margin-bottom: 0.5em;
      color: #333;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No graph data</h2>
    <p>The query returned no vertices or edges.</p>
  </div>
</body>
</html>`
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"></script>
  <style>
    * {
      box-sizing: border-box;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: #f5f5f5;
    }
    #cy {
      width: 100%;
      height: 100vh;
      background: white;
    }
    #legend {
      position: absolute;
      top: 12px;
      left: 12px;
      background: rgba(255,255,255,0.9);
      border: 1px solid #ddd;
      border-radius: 4px;
      padding: 6px 10px;
      font-size: 12px;
      z-index: 10;
    }
    #legend .chip {
      display: inline-block;
      margin: 2px 4px 2px 0;
      padding: 2px 8px;
      border-radius: 10px;
      border: 2px solid;
    }
    #tooltip {
      position: absolute;
      display: none;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 8px 12px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
      max-width: 320px;
      font-size: 13px;
      z-index: 1000;
      pointer-events: none;
    }
    #tooltip .type {
      font-size: 10px;
      text-transform: uppercase;
      color: #888;
      margin-bottom: 4px;
    }
    #tooltip .detail {
      color: #555;
      margin: 2px 0;
    }
  </style>
</head>
<body>
  <div id="cy"></div>
  <div id="legend"></div>
  <div id="tooltip"></div>
  <script>
    (function() {
      const graphData = {{.GraphJSON}};
      const legend = {{.LegendJSON}};
      const layout = "{{.Layout}}";

      // Resolve the caption property of each element to display text.
      function captionText(data) {
        if (data.caption === 'gid') return data.id;
        if (data.caption === 'label') return data.label;
        const props = data.properties || {};
        if (Object.prototype.hasOwnProperty.call(props, data.caption)) {
          const v = props[data.caption];
          return typeof v === 'string' ? v : JSON.stringify(v);
        }
        return '';
      }
      graphData.nodes.forEach(function(n) { n.data.display = captionText(n.data); });
      graphData.edges.forEach(function(e) { e.data.display = captionText(e.data); });

      const cy = cytoscape({
        container: document.getElementById('cy'),
        elements: graphData,
        style: [
          {
            selector: 'node',
            style: {
              'background-color': 'data(backgroundColor)',
              'border-color': 'data(borderColor)',
              'border-width': 2,
              'color': 'data(fontColor)',
              'label': 'data(display)',
              'font-size': '10px',
              'text-valign': 'center',
              'text-halign': 'center',
              'width': 'data(size)',
              'height': 'data(size)'
            }
          },
          {
            selector: 'edge',
            style: {
              'line-color': 'data(backgroundColor)',
              'target-arrow-color': 'data(backgroundColor)',
              'target-arrow-shape': 'triangle',
              'curve-style': 'bezier',
              'label': 'data(display)',
              'font-size': '9px',
              'text-rotation': 'autorotate',
              'width': 'data(size)'
            }
          },
          {
            selector: '.new',
            style: {
              'border-style': 'double',
              'border-width': 4
            }
          },
          {
            selector: 'node.dimmed',
            style: {
              'opacity': 0.3
            }
          },
          {
            selector: 'edge.dimmed',
            style: {
              'opacity': 0.2
            }
          }
        ],
        layout: {
          name: layout,
          animate: false,
          nodeRepulsion: 8000,
          idealEdgeLength: 100,
          edgeElasticity: 100
        }
      });

      // Legend chips
      const legendEl = document.getElementById('legend');
      function addChips(entries, kind) {
        Object.keys(entries).sort().forEach(function(label) {
          const e = entries[label];
          const chip = document.createElement('span');
          chip.className = 'chip';
          chip.textContent = label;
          chip.title = kind + ' | size ' + e.size + ' | caption ' + e.caption;
          chip.style.background = e.color;
          chip.style.borderColor = e.borderColor;
          chip.style.color = e.fontColor;
          legendEl.appendChild(chip);
        });
      }
      addChips(legend.nodeLegend, 'node');
      legendEl.appendChild(document.createElement('br'));
      addChips(legend.edgeLegend, 'edge');

      // Tooltip handling
      const tooltip = document.getElementById('tooltip');

      function escapeHtml(str) {
        if (str === undefined || str === null) return '';
        return String(str).replace(/&/g, '&amp;')
                  .replace(/</g, '&lt;')
                  .replace(/>/g, '&gt;')
                  .replace(/"/g, '&quot;');
      }

      function getTooltip(el) {
        const data = el.data();
        let html = '<div class="type">' + escapeHtml(data.label) + ' ' + escapeHtml(data.id) + '</div>';
        const props = data.properties || {};
        Object.keys(props).sort().forEach(function(k) {
          html += '<div class="detail"><b>' + escapeHtml(k) + '</b>: ' + escapeHtml(JSON.stringify(props[k])) + '</div>';
        });
        return html;
      }

      cy.on('mouseover', 'node, edge', function(evt) {
        tooltip.innerHTML = getTooltip(evt.target);
        tooltip.style.display = 'block';
        const pos = evt.renderedPosition || evt.position;
        tooltip.style.left = (pos.x + 15) + 'px';
        tooltip.style.top = (pos.y + 15) + 'px';
      });

      cy.on('mouseout', 'node, edge', function() {
        tooltip.style.display = 'none';
      });

      // Click highlighting
      cy.on('tap', 'node', function(evt) {
        cy.elements().removeClass('dimmed');
        const neighborhood = evt.target.neighborhood().add(evt.target);
        cy.elements().not(neighborhood).addClass('dimmed');
      });

      cy.on('tap', function(evt) {
        if (evt.target === cy) {
          cy.elements().removeClass('dimmed');
        }
      });
    })();
  </script>
</body>
</html>`
