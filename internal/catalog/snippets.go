package catalog

// Python analysis functions embedded into generated notebooks. Imports live
// inside each function so the notebook carries everything it needs.

// genericSnippet fetches the archive data of all input entries referenced by
// the analysis entry. Included by every template.
const genericSnippet = `def get_input_data(token_header, base_url, analysis_entry_id):
    """Get the archive data of all referenced input entries."""
    from http import HTTPStatus

    import requests

    def entry_id_from_reference(reference):
        return reference.split('#')[0].split('/')[-1]

    query = {'required': {'data': '*'}}
    try:
        response = requests.post(
            f'{base_url}/entries/{analysis_entry_id}/archive/query',
            headers={**token_header, 'Accept': 'application/json'},
            json=query,
            timeout=20,
        )
        if response.status_code == HTTPStatus.UNAUTHORIZED:
            print('Authentication failed as the token expired. Please re-launch.')
    except requests.exceptions.RequestException as e:
        print(f'Error occurred while fetching the data: {e}')
        return []

    referred_entries = response.json()['data']['archive']['data']['inputs']
    entry_ids = [entry_id_from_reference(e['reference']) for e in referred_entries]

    query = {'required': {'data': '*', 'metadata': '*', 'results': '*'}}
    entry_archive_data_list = []
    for entry_id in entry_ids:
        response = requests.post(
            f'{base_url}/entries/{entry_id}/archive/query',
            headers={**token_header, 'Accept': 'application/json'},
            json=query,
            timeout=20,
        ).json()
        if 'data' in response:
            entry_archive_data_list.append(response['data']['archive']['data'])

    return entry_archive_data_list
`

// xrdSnippet holds the XRD peak-finding and plotting helpers.
const xrdSnippet = `def xrd_find_peaks(archive_data, options=None):
    """Find peaks in the intensity vs 2-theta data."""
    import numpy as np
    from scipy.signal import find_peaks

    intensity = np.array(archive_data['results'][0]['intensity'])
    two_theta = np.array(archive_data['results'][0]['two_theta'])

    if options:
        peak_indices, _ = find_peaks(intensity, **options)
    else:
        peak_indices, _ = find_peaks(intensity)

    peaks = {
        'peaks': {
            'intensity': intensity[peak_indices].tolist(),
            'two_theta': two_theta[peak_indices].tolist(),
        }
    }
    return peaks, peak_indices


def xrd_plot_intensity_two_theta(archive_data, peak_indices=None, log_y=False):
    """Plot intensity vs 2-theta, optionally marking detected peaks."""
    import numpy as np
    import plotly.express as px

    intensity = np.array(archive_data['results'][0]['intensity'])
    two_theta = np.array(archive_data['results'][0]['two_theta'])

    fig = px.line(
        x=two_theta,
        y=intensity,
        log_y=log_y,
        labels={'x': '2θ (°)', 'y': 'Intensity'},
        height=600,
        width=800,
        title='Intensity vs 2θ',
    )
    if peak_indices is not None and len(peak_indices) > 0:
        fig.add_scatter(
            x=two_theta[peak_indices],
            y=intensity[peak_indices],
            mode='markers',
            marker=dict(size=8, color='red', symbol='cross'),
            name='Peaks',
        )
    fig.show()


def xrd_save_analysis_results(results, file_name='tmp_analysis_results.json'):
    """Save the analysis results as a JSON file."""
    import json

    with open(file_name, 'w', encoding='utf-8') as f:
        json.dump(results, f)


def xrd_conduct_analysis(archive_data, options=None, plot=True):
    """Run the XRD analysis and save the results."""
    if options is None:
        options = {'height': 20, 'threshold': 30, 'distance': 1}
    peaks, peak_indices = xrd_find_peaks(archive_data, options=options)
    if plot:
        xrd_plot_intensity_two_theta(archive_data, peak_indices)
        xrd_plot_intensity_two_theta(archive_data, peak_indices, log_y=True)
    xrd_save_analysis_results(peaks)
`
