package web

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Orbital Finances</title>
<style>
  body { font-family: -apple-system, sans-serif; background: #161420; color: #eee; margin: 2rem; }
  h1 { font-size: 1.3rem; }
  table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
  th, td { text-align: left; padding: 0.4rem 0.8rem; border-bottom: 1px solid #2a2740; }
  th { color: #9a96b5; font-weight: 600; }
  .kind-deposit, .kind-sell { color: #73f59f; }
  .kind-withdraw, .kind-buy { color: #ff7b9c; }
</style>
</head>
<body>
<h1>Orbital Finances &mdash; transaction feed</h1>
<table>
  <thead>
    <tr><th>Time</th><th>Kind</th><th>Ticker</th><th>Quantity</th><th>Amount</th><th>Balance after</th></tr>
  </thead>
  <tbody id="receipts"></tbody>
</table>
<script>
  const tbody = document.getElementById('receipts');
  const source = new EventSource('/receipts/stream');
  source.onmessage = (e) => {
    const receipt = JSON.parse(e.data);
    const row = document.createElement('tr');
    const ts = new Date(receipt.resolved_at).toLocaleTimeString();
    row.innerHTML =
      '<td>' + ts + '</td>' +
      '<td class="kind-' + receipt.kind + '">' + receipt.kind + '</td>' +
      '<td>' + (receipt.ticker || '-') + '</td>' +
      '<td>' + (receipt.quantity || '-') + '</td>' +
      '<td>' + (receipt.amount || '-') + '</td>' +
      '<td>' + receipt.balance_after + '</td>';
    tbody.prepend(row);
  };
</script>
</body>
</html>
`
